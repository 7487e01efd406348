// Package aggregator is a peripheral reporting sidecar that collects
// checklist/outcome records across many spawned agents for end-of-run
// reporting. It is off the hot path and shares no locks with the bridge
// registry.
package aggregator

import "sync"

// ValidationResult is purely structural: a checklist is successful iff
// every item is marked completed; an empty checklist is vacuously
// successful.
type ValidationResult struct {
	TotalItems     int
	CompletedItems int
}

// Successful reports whether every checklist item was completed.
func (v ValidationResult) Successful() bool {
	return v.TotalItems == v.CompletedItems
}

// Validate builds a ValidationResult from a checklist of items and the
// subset reported as completed.
func Validate(items []string, completed map[string]bool) ValidationResult {
	total := len(items)
	done := 0
	for _, item := range items {
		if completed[item] {
			done++
		}
	}
	return ValidationResult{TotalItems: total, CompletedItems: done}
}

// AgentOutputRecord is the per-agent record retained for reporting.
type AgentOutputRecord struct {
	AgentID        string
	Purpose        string
	TruncatedOutput string
	Success        bool
}

// Summary is the end-of-run rollup.
type Summary struct {
	TotalAgents      int
	SuccessfulAgents int
	TotalItems       int
	CompletedItems   int
}

// Aggregator accumulates records in insertion order. It has no ordering
// guarantees beyond that, and is safe for concurrent use since multiple
// Event Monitors may record results concurrently.
type Aggregator struct {
	mu         sync.Mutex
	records    []AgentOutputRecord
	validations []ValidationResult
}

// New constructs an empty in-memory Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Record appends an AgentOutputRecord and its associated ValidationResult.
func (a *Aggregator) Record(record AgentOutputRecord, validation ValidationResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
	a.validations = append(a.validations, validation)
}

// Records returns a copy of the recorded AgentOutputRecords, in insertion order.
func (a *Aggregator) Records() []AgentOutputRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AgentOutputRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Summarize computes the end-of-run Summary over everything recorded so far.
func (a *Aggregator) Summarize() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{TotalAgents: len(a.records)}
	for _, r := range a.records {
		if r.Success {
			s.SuccessfulAgents++
		}
	}
	for _, v := range a.validations {
		s.TotalItems += v.TotalItems
		s.CompletedItems += v.CompletedItems
	}
	return s
}
