package monitor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orchestrun/bridge"
	"orchestrun/conversation"
	"orchestrun/events"
	"orchestrun/ids"
	"orchestrun/monitor"
	"orchestrun/registry"
)

func setup(t *testing.T) (*registry.Registry, *bridge.Bridge, *fakeSession, *fakeChildConversation) {
	t.Helper()
	reg := registry.New()
	sess := &fakeSession{id: ids.NewConversationID()}
	weak, _ := conversation.NewWeakSession(sess)
	convID := ids.NewConversationID()
	b := bridge.New("child-1", "sub-1", convID, weak)
	require.NoError(t, reg.Register(b))
	child := &fakeChildConversation{}
	return reg, b, sess, child
}

func TestRunResolvesTaskCompleteWithSuccessHeading(t *testing.T) {
	reg, b, sess, child := setup(t)
	msg := "final answer"
	child.queue = []events.Event{
		events.NewTaskStarted("sub-1"),
		events.NewAgentMessage("sub-1", msg),
		events.NewTaskComplete("sub-1", &msg),
	}

	m := monitor.New("child-1", "sub-1", b.ConversationID, reg, b, mustWeak(t, sess), child, nil, nil)
	outcomeCh := make(chan monitor.Outcome, 1)
	m.Run(context.Background(), outcomeCh)

	outcome, ok := <-outcomeCh
	require.True(t, ok)
	assert.True(t, outcome.Success)
	assert.Contains(t, outcome.Markdown, "### Subagent `child-1` ✅")
	assert.Contains(t, outcome.Markdown, msg)
	assert.True(t, outcome.InjectedIntoTurn)

	_, stillThere := reg.Get(b.ConversationID)
	assert.False(t, stillThere, "bridge must be removed on terminal resolution")

	completed := sess.eventsOfKind(events.KindAgentCompleted)
	require.Len(t, completed, 1)
}

func TestRunResolvesErrorEvent(t *testing.T) {
	reg, b, sess, child := setup(t)
	child.queue = []events.Event{events.NewError("sub-1", "boom")}

	m := monitor.New("child-1", "sub-1", b.ConversationID, reg, b, mustWeak(t, sess), child, nil, nil)
	outcomeCh := make(chan monitor.Outcome, 1)
	m.Run(context.Background(), outcomeCh)

	outcome := <-outcomeCh
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Markdown, "### Subagent `child-1` ❌")
	assert.Contains(t, outcome.Markdown, "boom")
}

func TestRunResolvesTurnAborted(t *testing.T) {
	reg, b, sess, child := setup(t)
	child.queue = []events.Event{events.NewTurnAborted("sub-1", events.AbortInterrupted)}

	m := monitor.New("child-1", "sub-1", b.ConversationID, reg, b, mustWeak(t, sess), child, nil, nil)
	outcomeCh := make(chan monitor.Outcome, 1)
	m.Run(context.Background(), outcomeCh)

	outcome := <-outcomeCh
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Markdown, "### Subagent `child-1` ⚠️")
	assert.Contains(t, outcome.Markdown, "interrupted by user")
}

func TestRunOnStreamCloseWithoutTerminalClosesChannel(t *testing.T) {
	reg, b, sess, child := setup(t)
	child.queue = nil // closes immediately

	m := monitor.New("child-1", "sub-1", b.ConversationID, reg, b, mustWeak(t, sess), child, nil, nil)
	outcomeCh := make(chan monitor.Outcome, 1)
	m.Run(context.Background(), outcomeCh)

	_, ok := <-outcomeCh
	assert.False(t, ok, "channel must close without a value")

	_, stillThere := reg.Get(b.ConversationID)
	assert.False(t, stillThere)
}

func TestRunInjectionFailureFallsBackToBackgroundEvent(t *testing.T) {
	reg, b, sess, child := setup(t)
	sess.injectErr = assertErr{}
	child.queue = []events.Event{events.NewTaskComplete("sub-1", strPtr("done"))}

	m := monitor.New("child-1", "sub-1", b.ConversationID, reg, b, mustWeak(t, sess), child, nil, nil)
	outcomeCh := make(chan monitor.Outcome, 1)
	m.Run(context.Background(), outcomeCh)

	outcome := <-outcomeCh
	assert.False(t, outcome.InjectedIntoTurn)

	bg := sess.eventsOfKind(events.KindBackgroundEvent)
	require.Len(t, bg, 1)
}

func TestRunTruncatedOutputHeadingWhenNoFinalMarkdownSet(t *testing.T) {
	reg, b, sess, child := setup(t)
	big := make([]byte, 40000)
	for i := range big {
		big[i] = 'x'
	}
	child.queue = []events.Event{
		events.NewAgentMessageDelta("sub-1", string(big)),
		events.NewTaskComplete("sub-1", nil),
	}

	m := monitor.New("child-1", "sub-1", b.ConversationID, reg, b, mustWeak(t, sess), child, nil, nil)
	outcomeCh := make(chan monitor.Outcome, 1)
	m.Run(context.Background(), outcomeCh)

	outcome := <-outcomeCh
	assert.Contains(t, outcome.Markdown, "(output truncated to 5k tokens)")
}

func mustWeak(t *testing.T, s *fakeSession) conversation.WeakSession {
	t.Helper()
	w, _ := conversation.NewWeakSession(s)
	return w
}

func strPtr(s string) *string { return &s }

type assertErr struct{}

func (assertErr) Error() string { return "injection failed" }
