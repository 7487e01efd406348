// Package conversation declares the external collaborator interfaces the
// orchestration core consumes but never implements: the conversation
// manager that creates child conversations, the parent session, and the
// child conversation's own submit/next-event surface.
// Concrete engines (llm/anthropic, llm/openai) satisfy Manager and
// ChildConversation; cmd/demo runs against an in-process stub instead. The
// core packages import only this file.
package conversation

import (
	"context"
	"sync/atomic"

	"orchestrun/childconfig"
	"orchestrun/events"
	"orchestrun/ids"
)

// Manager creates child conversations from a built child configuration.
type Manager interface {
	NewConversation(ctx context.Context, cfg childconfig.Config) (Created, error)
}

// Created is the result of creating a child conversation.
type Created struct {
	ConversationID ids.ConversationID
	Conversation   ChildConversation
}

// UserInput is a turn submitted into a conversation.
type UserInput struct {
	Items []string
}

// Interrupt requests that the conversation abort its current turn.
type Interrupt struct {
	Reason events.AbortReason
}

// ChildConversation is the child-side handle the Event Monitor drains.
type ChildConversation interface {
	// Submit enqueues op (a UserInput or an Interrupt) for processing.
	Submit(ctx context.Context, op any) error
	// NextEvent blocks for the next event, returning ok=false once the
	// stream has closed with no further events to deliver.
	NextEvent(ctx context.Context) (events.Event, bool, error)
}

// Session is the parent-side handle the core mutates and reads from.
type Session interface {
	SendEvent(ctx context.Context, event events.Event) error
	RegisterChildAgent(agentID ids.AgentID, conv ChildConversation)
	UnregisterChildAgent(agentID ids.AgentID)
	// InjectInput adds items to the parent's next-turn input queue. A
	// returned error is non-fatal; callers fall back to a BackgroundEvent.
	InjectInput(ctx context.Context, items []string) error
	ConversationID() ids.ConversationID
}

// WeakSession is the non-owning handle a Bridge keeps to its parent
// session. Alive must return false once the underlying session is gone;
// callers must treat that as ParentGone rather than dereferencing a stale
// Session.
type WeakSession interface {
	Session
	Alive() bool
}

// sessionHandle is the default WeakSession: it holds a direct reference to
// a live Session plus an externally-flippable liveness flag, since Go has
// no runtime-level weak pointer to model true weak references.
type sessionHandle struct {
	Session
	alive *atomic.Bool
}

// NewWeakSession wraps session in a WeakSession whose returned invalidate
// function flips Alive() to false, modeling the parent session vanishing.
func NewWeakSession(session Session) (handle WeakSession, invalidate func()) {
	alive := &atomic.Bool{}
	alive.Store(true)
	h := &sessionHandle{Session: session, alive: alive}
	return h, func() { alive.Store(false) }
}

func (h *sessionHandle) Alive() bool { return h.alive.Load() }
