// The Mongo store is an optional durable sidecar letting a long-running
// orchestrator process keep AgentOutputRecord history beyond a single run.
// The spawn/monitor hot path never touches it.
package aggregator

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Store persists AgentOutputRecords beyond process lifetime.
type Store interface {
	Save(ctx context.Context, runID string, record AgentOutputRecord) error
	ListByRun(ctx context.Context, runID string) ([]AgentOutputRecord, error)
}

type mongoRecord struct {
	RunID           string `bson:"run_id"`
	AgentID         string `bson:"agent_id"`
	Purpose         string `bson:"purpose"`
	TruncatedOutput string `bson:"truncated_output"`
	Success         bool   `bson:"success"`
}

// MongoStore is a Store backed by a Mongo collection.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore constructs a MongoStore writing into the given collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (m *MongoStore) Save(ctx context.Context, runID string, record AgentOutputRecord) error {
	doc := mongoRecord{
		RunID:           runID,
		AgentID:         record.AgentID,
		Purpose:         record.Purpose,
		TruncatedOutput: record.TruncatedOutput,
		Success:         record.Success,
	}
	_, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert aggregator record: %w", err)
	}
	return nil
}

func (m *MongoStore) ListByRun(ctx context.Context, runID string) ([]AgentOutputRecord, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"run_id": runID})
	if err != nil {
		return nil, fmt.Errorf("find aggregator records: %w", err)
	}
	defer cursor.Close(ctx)

	var out []AgentOutputRecord
	for cursor.Next(ctx) {
		var doc mongoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode aggregator record: %w", err)
		}
		out = append(out, AgentOutputRecord{
			AgentID: doc.AgentID, Purpose: doc.Purpose,
			TruncatedOutput: doc.TruncatedOutput, Success: doc.Success,
		})
	}
	return out, cursor.Err()
}
