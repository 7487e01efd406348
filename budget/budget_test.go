package budget_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orchestrun/budget"
)

func TestAdmitUnderCapIsPassthrough(t *testing.T) {
	s := budget.New()
	got := s.Admit("hello")
	assert.Equal(t, "hello", got)
	assert.False(t, s.Truncated())
}

func TestAdmitEmptyDeltaIsNoop(t *testing.T) {
	s := budget.New()
	assert.Equal(t, "", s.Admit(""))
	assert.Equal(t, 0, s.UsedTokens())
}

func TestAdmitOversizedDeltaTruncatesOnce(t *testing.T) {
	s := budget.New()
	big := strings.Repeat("x", 40000) // ~10k tokens against a 5k cap
	got := s.Admit(big)

	require.True(t, s.Truncated())
	assert.Contains(t, got, budget.TruncationMarker)
	assert.LessOrEqual(t, len(got), budget.CapTokens*4+len(budget.TruncationMarker))
	assert.Equal(t, budget.CapTokens, s.UsedTokens())

	// subsequent admits are no-ops
	assert.Equal(t, "", s.Admit("more"))
	assert.Equal(t, budget.CapTokens, s.UsedTokens())
}

func TestAdmitMultipleOversizedDeltasYieldOneMarker(t *testing.T) {
	s := budget.New()
	var assembled strings.Builder
	for i := 0; i < 3; i++ {
		assembled.WriteString(s.Admit(strings.Repeat("y", 30000)))
	}
	assert.Equal(t, 1, strings.Count(assembled.String(), budget.TruncationMarker))
}

func TestUsedTokensMonotoneNonDecreasing(t *testing.T) {
	s := budget.New()
	prev := 0
	for _, d := range []string{"a", "bb", "ccc", strings.Repeat("d", 100)} {
		s.Admit(d)
		assert.GreaterOrEqual(t, s.UsedTokens(), prev)
		prev = s.UsedTokens()
	}
}
