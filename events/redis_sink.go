package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSubscriber is an events.Subscriber that republishes every event onto
// a Redis pub/sub channel, letting external dashboards observe orchestration
// activity without being wired into the parent's own Sink. It is entirely
// peripheral: the spawn/monitor/return_progress hot path never touches
// Redis beyond whatever a caller registers on the Bus.
type RedisSubscriber struct {
	client  *redis.Client
	channel string
}

// NewRedisSubscriber constructs a subscriber that publishes JSON-encoded
// envelopes to channel on the given Redis client.
func NewRedisSubscriber(client *redis.Client, channel string) *RedisSubscriber {
	return &RedisSubscriber{client: client, channel: channel}
}

type envelope struct {
	Kind Kind            `json:"kind"`
	Sub  string          `json:"sub_id"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HandleEvent satisfies events.Subscriber.
func (r *RedisSubscriber) HandleEvent(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for redis publish: %w", err)
	}
	env := envelope{Kind: event.Kind(), Sub: event.SubID().String(), Data: data}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope for redis publish: %w", err)
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}
