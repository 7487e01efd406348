// Package monitor implements the event monitor: the single goroutine per
// spawned child that drains the child's event stream, forwards wrapped
// copies to the parent, drives the output budgeter and progress throttler,
// and resolves the outcome channel on any terminal event.
package monitor

import (
	"context"
	"fmt"

	"orchestrun/bridge"
	"orchestrun/budget"
	"orchestrun/conversation"
	"orchestrun/events"
	"orchestrun/ids"
	"orchestrun/registry"
	"orchestrun/telemetry"
	"orchestrun/throttle"
)

// Outcome is the single-shot value delivered to the spawn tool.
type Outcome struct {
	Success          bool
	Markdown         string
	InjectedIntoTurn bool
}

// Monitor holds the per-child state the Event Monitor loop mutates.
type Monitor struct {
	AgentID        ids.AgentID
	SubID          ids.SubID
	ConversationID ids.ConversationID

	Registry *registry.Registry
	Bridge   *bridge.Bridge
	Session  conversation.WeakSession
	Child    conversation.ChildConversation

	Logger telemetry.Logger
	Tracer telemetry.Tracer

	budgeter  *budget.State
	throttler *throttle.State

	lastAgentMessage *string
	accumulated      []string

	// lastContextPct is the last observed context-window percentage. It is
	// recorded only on the Monitor and is not exposed outside this package.
	lastContextPct int
}

// New constructs a Monitor for a freshly spawned child. The caller must have
// already registered the child's bridge with reg before calling Run.
func New(agentID ids.AgentID, subID ids.SubID, convID ids.ConversationID, reg *registry.Registry, b *bridge.Bridge, session conversation.WeakSession, child conversation.ChildConversation, logger telemetry.Logger, tracer telemetry.Tracer) *Monitor {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	if tracer == nil {
		tracer = telemetry.NewNoopTracer()
	}
	return &Monitor{
		AgentID: agentID, SubID: subID, ConversationID: convID,
		Registry: reg, Bridge: b, Session: session, Child: child,
		Logger: logger, Tracer: tracer,
		budgeter: budget.New(), throttler: throttle.New(),
	}
}

func (m *Monitor) bridgeFinalMarkdown() (string, bool) {
	if m.Bridge == nil {
		return "", false
	}
	return m.Bridge.ReadFinalMarkdown()
}

func (m *Monitor) setBridgeFinalMarkdown(markdown string) {
	if m.Bridge == nil {
		return
	}
	m.Bridge.SetFinalMarkdown(markdown)
}

// Run drains the child's event stream until a terminal event or stream
// closure, then resolves outcomeCh exactly once and removes the bridge from
// the registry on every exit path.
func (m *Monitor) Run(ctx context.Context, outcomeCh chan<- Outcome) {
	ctx, span := m.Tracer.Start(ctx, "event_monitor")
	defer span.End()
	defer m.Registry.Remove(m.ConversationID)
	defer close(outcomeCh)

	for {
		ev, ok, err := m.Child.NextEvent(ctx)
		if err != nil {
			m.Logger.Warn(ctx, "child stream error", "agent_id", m.AgentID, "err", err)
			span.SetError(err)
			return
		}
		if !ok {
			// stream closed without a terminal event: exit, bridge removed
			// by the deferred Remove above, outcome channel closes empty.
			return
		}

		m.forward(ctx, ev)

		terminal, outcome := m.handle(ctx, ev)
		if terminal {
			outcomeCh <- outcome
			return
		}
	}
}

// forward wraps every event and sends it to the parent's sink. Forwarding
// is never throttled; only derived progress goes through the throttler.
func (m *Monitor) forward(ctx context.Context, ev events.Event) {
	wrapped := events.NewAgentEvent(m.SubID, m.AgentID, ev)
	if err := m.Session.SendEvent(ctx, wrapped); err != nil {
		m.Logger.Warn(ctx, "failed to forward child event", "agent_id", m.AgentID, "err", err)
	}
}

func (m *Monitor) progress(ctx context.Context, message string) {
	if err := m.Session.SendEvent(ctx, events.NewAgentProgress(m.SubID, m.AgentID, message)); err != nil {
		m.Logger.Warn(ctx, "failed to emit progress", "agent_id", m.AgentID, "err", err)
	}
}

// handle dispatches per-kind behavior for one child event. It returns
// terminal=true with the resolved Outcome on TaskComplete, Error, or
// TurnAborted.
func (m *Monitor) handle(ctx context.Context, ev events.Event) (bool, Outcome) {
	switch e := ev.(type) {
	case events.TaskStarted:
		m.progress(ctx, "started")

	case events.AgentMessageDelta:
		admitted := m.budgeter.Admit(e.Delta)
		if admitted != "" {
			m.accumulated = append(m.accumulated, admitted)
		}
		if out, emitted := m.throttler.Offer(e.Delta); emitted {
			m.progress(ctx, out)
		}

	case events.AgentMessage:
		admitted := m.budgeter.Admit(e.Message + "\n")
		if admitted != "" {
			m.accumulated = append(m.accumulated, admitted)
		}
		msg := e.Message
		m.lastAgentMessage = &msg
		m.progress(ctx, m.throttler.OfferFinal(e.Message))

	case events.ExecCommandBegin:
		m.progress(ctx, fmt.Sprintf("exec: %q in %s", e.Command, e.Cwd))

	case events.ExecCommandEnd:
		m.progress(ctx, fmt.Sprintf("exec: exit %d", e.ExitCode))

	case events.McpToolCallBegin:
		m.progress(ctx, fmt.Sprintf("tool: %s.%s", e.Server, e.Tool))

	case events.McpToolCallEnd:
		status := "ok"
		if !e.OK {
			status = "failed"
		}
		m.progress(ctx, fmt.Sprintf("tool: %s.%s %s", e.Server, e.Tool, status))

	case events.TokenCount:
		if e.ContextWindow != nil && *e.ContextWindow > 0 {
			pct := roundNearest(float64(e.Remaining) / float64(*e.ContextWindow) * 100.0)
			m.progress(ctx, fmt.Sprintf("context left: %d%%", pct))
			m.lastContextPct = pct
		}

	case events.TaskComplete:
		return true, m.resolveTaskComplete(ctx, e)

	case events.Error:
		return true, m.resolveError(ctx, e)

	case events.TurnAborted:
		return true, m.resolveAborted(ctx, e)
	}
	return false, Outcome{}
}

func roundNearest(f float64) int {
	i := int(f)
	if f-float64(i) >= 0.5 {
		return i + 1
	}
	return i
}
