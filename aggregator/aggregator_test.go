package aggregator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orchestrun/aggregator"
)

func TestValidateEmptyChecklistIsSuccessful(t *testing.T) {
	v := aggregator.Validate(nil, nil)
	assert.True(t, v.Successful())
}

func TestValidatePartialChecklistIsNotSuccessful(t *testing.T) {
	v := aggregator.Validate([]string{"a", "b"}, map[string]bool{"a": true})
	assert.False(t, v.Successful())
	assert.Equal(t, 2, v.TotalItems)
	assert.Equal(t, 1, v.CompletedItems)
}

func TestAggregatorSummarizeAcrossRecords(t *testing.T) {
	a := aggregator.New()
	a.Record(aggregator.AgentOutputRecord{AgentID: "1", Success: true}, aggregator.Validate([]string{"x"}, map[string]bool{"x": true}))
	a.Record(aggregator.AgentOutputRecord{AgentID: "2", Success: false}, aggregator.Validate([]string{"y", "z"}, nil))

	summary := a.Summarize()
	assert.Equal(t, 2, summary.TotalAgents)
	assert.Equal(t, 1, summary.SuccessfulAgents)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 1, summary.CompletedItems)

	records := a.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, "1", records[0].AgentID)
}
