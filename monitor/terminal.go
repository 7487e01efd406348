package monitor

import (
	"context"
	"fmt"
	"strings"

	"orchestrun/events"
)

// accumulatedOutput joins every chunk admitted by the budgeter so far.
func (m *Monitor) accumulatedOutput() string {
	return strings.Join(m.accumulated, "")
}

// injectOrFallback implements the shared injection step used by all three
// terminal paths: inject the summary into the parent's next turn, and on
// failure emit a BackgroundEvent carrying the body instead.
func (m *Monitor) injectOrFallback(ctx context.Context, body string) bool {
	err := m.Session.InjectInput(ctx, []string{body})
	if err != nil {
		m.Logger.Warn(ctx, "injection failed, falling back to background event", "agent_id", m.AgentID, "err", err)
		if sendErr := m.Session.SendEvent(ctx, events.NewBackgroundEvent(m.SubID, m.AgentID, body)); sendErr != nil {
			m.Logger.Warn(ctx, "failed to emit fallback background event", "agent_id", m.AgentID, "err", sendErr)
		}
		return false
	}
	return true
}

// resolveTaskComplete builds the success summary. The body prefers a final
// markdown the child reported via return_progress; otherwise it falls back
// to the accumulated output, the completion's last message, the last whole
// agent message, then a stock line.
func (m *Monitor) resolveTaskComplete(ctx context.Context, e events.TaskComplete) Outcome {
	fallback := m.accumulatedOutput()
	if fallback == "" && e.LastMessage != nil {
		fallback = *e.LastMessage
	}
	if fallback == "" && m.lastAgentMessage != nil {
		fallback = *m.lastAgentMessage
	}
	if fallback == "" {
		fallback = "Child agent completed without returning a message."
	}

	hadFinalMarkdown := false
	body, ok := m.bridgeFinalMarkdown()
	if ok {
		hadFinalMarkdown = true
	} else {
		body = fallback
		m.setBridgeFinalMarkdown(body)
	}

	heading := fmt.Sprintf("### Subagent `%s` ✅", m.AgentID)
	if m.budgeter.Truncated() && !hadFinalMarkdown {
		heading = fmt.Sprintf("### Subagent `%s` ✅ (output truncated to 5k tokens)", m.AgentID)
	}
	summary := heading + "\n\n" + body

	if err := m.Session.SendEvent(ctx, events.NewAgentCompleted(m.SubID, m.AgentID, true, summary)); err != nil {
		m.Logger.Warn(ctx, "failed to emit AgentCompleted", "agent_id", m.AgentID, "err", err)
	}
	m.Session.UnregisterChildAgent(m.AgentID)
	injected := m.injectOrFallback(ctx, summary)

	return Outcome{Success: true, Markdown: summary, InjectedIntoTurn: injected}
}

// resolveError builds the failure summary for a child-reported error.
func (m *Monitor) resolveError(ctx context.Context, e events.Error) Outcome {
	summary := fmt.Sprintf("### Subagent `%s` ❌\n\n%s", m.AgentID, e.Message)
	return m.resolveFailure(ctx, summary)
}

// resolveAborted builds the failure summary for an aborted child turn.
func (m *Monitor) resolveAborted(ctx context.Context, e events.TurnAborted) Outcome {
	summary := fmt.Sprintf("### Subagent `%s` ⚠️\n\nThe subagent was %s.", m.AgentID, e.Reason.Text())
	return m.resolveFailure(ctx, summary)
}

// resolveFailure is the shared tail of the Error and TurnAborted paths: emit
// AgentCompleted{success=false}, unregister, inject with fallback, and
// return the outcome.
func (m *Monitor) resolveFailure(ctx context.Context, summary string) Outcome {
	if err := m.Session.SendEvent(ctx, events.NewAgentCompleted(m.SubID, m.AgentID, false, summary)); err != nil {
		m.Logger.Warn(ctx, "failed to emit AgentCompleted", "agent_id", m.AgentID, "err", err)
	}
	m.Session.UnregisterChildAgent(m.AgentID)
	injected := m.injectOrFallback(ctx, summary)

	return Outcome{Success: false, Markdown: summary, InjectedIntoTurn: injected}
}
