// Package bridge defines the per-child state object joining a live child
// conversation to its parent session.
//
// The bridge holds a non-owning reference to the parent so that a dropped
// parent is observable rather than silently kept alive. The contract is
// modeled with an explicit liveness predicate on the session handle.
package bridge

import (
	"sync"

	"orchestrun/conversation"
	"orchestrun/ids"
)

// Bridge holds a spawned child's identity plus its mutable progress fields,
// each mutated only under the bridge's own lock.
type Bridge struct {
	AgentID        ids.AgentID
	ParentSubID    ids.SubID
	ConversationID ids.ConversationID
	parent         conversation.WeakSession

	mu             sync.Mutex
	lastProgress   *string
	finalMarkdown  *string
}

// New constructs a Bridge for a freshly created child conversation. It must
// be registered with the registry before the child's prompt is submitted, so
// a return_progress call in the child's first response can find it.
func New(agentID ids.AgentID, parentSubID ids.SubID, conversationID ids.ConversationID, parent conversation.WeakSession) *Bridge {
	return &Bridge{
		AgentID:        agentID,
		ParentSubID:    parentSubID,
		ConversationID: conversationID,
		parent:         parent,
	}
}

// ResolveParent returns the parent session only if it is still alive.
func (b *Bridge) ResolveParent() (conversation.WeakSession, bool) {
	if b.parent == nil || !b.parent.Alive() {
		return nil, false
	}
	return b.parent, true
}

// SetLastProgress records the most recent progress string reported by the
// child through a return_progress call.
func (b *Bridge) SetLastProgress(progress string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastProgress = &progress
}

// ReadLastProgress returns the most recently recorded progress, if any.
func (b *Bridge) ReadLastProgress() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastProgress == nil {
		return "", false
	}
	return *b.lastProgress, true
}

// SetFinalMarkdown records the canonical final summary body. It may be
// called multiple times; the most recent value wins.
func (b *Bridge) SetFinalMarkdown(markdown string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finalMarkdown = &markdown
}

// ReadFinalMarkdown returns the final markdown body, if one has been set.
func (b *Bridge) ReadFinalMarkdown() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalMarkdown == nil {
		return "", false
	}
	return *b.finalMarkdown, true
}
