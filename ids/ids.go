// Package ids defines the strongly-typed identifiers shared across the
// orchestration runtime, following the same thin-wrapper-over-string
// pattern the rest of the agent runtime uses for tool and agent handles.
package ids

import "github.com/google/uuid"

// ConversationID is a globally unique, engine-assigned identifier for a
// conversation (parent or child). It is comparable and usable as a map key.
type ConversationID string

// NewConversationID mints a fresh, process-unique ConversationID.
func NewConversationID() ConversationID {
	return ConversationID(uuid.NewString())
}

func (c ConversationID) String() string { return string(c) }

// AgentID is the caller-supplied identifier for a child agent, unique among
// a parent's currently active children. Unlike ConversationID it is chosen
// by the caller (the tool argument `task_id`), not minted by the runtime.
type AgentID string

func (a AgentID) String() string { return string(a) }

// SubID is the opaque correlation token a parent attaches to its tool
// invocation; the runtime stamps every event emitted on behalf of a spawned
// child with the SubID of the invocation that spawned it.
type SubID string

func (s SubID) String() string { return string(s) }
