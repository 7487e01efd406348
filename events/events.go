// Package events defines the event-sink abstraction and the concrete event
// types the orchestration runtime consumes from a child conversation and
// emits to a parent session: a small interface plus a family of concrete
// payload types embedding a common Base.
package events

import "orchestrun/ids"

// Kind discriminates event payload types, mirroring stream.EventType.
type Kind string

const (
	// Kinds produced by a child's own conversation engine and consumed by
	// the event monitor.
	KindTaskStarted        Kind = "task_started"
	KindAgentMessageDelta  Kind = "agent_message_delta"
	KindAgentMessage       Kind = "agent_message"
	KindExecCommandBegin   Kind = "exec_command_begin"
	KindExecCommandEnd     Kind = "exec_command_end"
	KindMcpToolCallBegin   Kind = "mcp_tool_call_begin"
	KindMcpToolCallEnd     Kind = "mcp_tool_call_end"
	KindTokenCount         Kind = "token_count"
	KindTaskComplete       Kind = "task_complete"
	KindError              Kind = "error"
	KindTurnAborted        Kind = "turn_aborted"

	// Kinds emitted by the runtime itself toward the parent's sink.
	KindAgentEvent     Kind = "agent_event" // wrapped copy of a child event
	KindAgentSpawned   Kind = "agent_spawned"
	KindAgentProgress  Kind = "agent_progress"
	KindAgentCompleted Kind = "agent_completed"
	KindBackgroundEvent Kind = "background_event"
)

// Event is the minimal interface every concrete payload satisfies.
type Event interface {
	Kind() Kind
	// SubID is the parent correlation token this event is tagged with, or
	// the empty string for events not yet attributed to a specific spawn.
	SubID() ids.SubID
}

// Base carries the fields common to every event.
type Base struct {
	EventKind Kind
	Sub       ids.SubID
}

func (b Base) Kind() Kind      { return b.EventKind }
func (b Base) SubID() ids.SubID { return b.Sub }

func newBase(k Kind, sub ids.SubID) Base { return Base{EventKind: k, Sub: sub} }

// --- child-stream events (consumed by the Event Monitor) -------------------

type TaskStarted struct{ Base }

type AgentMessageDelta struct {
	Base
	Delta string
}

type AgentMessage struct {
	Base
	Message string
}

type ExecCommandBegin struct {
	Base
	Command string
	Cwd     string
}

type ExecCommandEnd struct {
	Base
	ExitCode int
}

type McpToolCallBegin struct {
	Base
	Server string
	Tool   string
}

type McpToolCallEnd struct {
	Base
	Server string
	Tool   string
	OK     bool
}

type TokenCount struct {
	Base
	ContextWindow *int // nil if unknown
	Remaining     int
}

type TaskComplete struct {
	Base
	LastMessage *string
}

type Error struct {
	Base
	Message string
}

// AbortReason enumerates the reasons a child turn was aborted.
type AbortReason string

const (
	AbortInterrupted AbortReason = "interrupted"
	AbortReplaced    AbortReason = "replaced"
	AbortReviewEnded AbortReason = "review_ended"
)

// Text renders the human-readable fragment used in the abort heading.
func (r AbortReason) Text() string {
	switch r {
	case AbortInterrupted:
		return "interrupted by user"
	case AbortReplaced:
		return "replaced by another task"
	case AbortReviewEnded:
		return "review ended"
	default:
		return string(r)
	}
}

type TurnAborted struct {
	Base
	Reason AbortReason
}

// --- parent-visible wrapper/derived events ----------------------------------

// AgentEvent wraps a raw child event for forwarding to the parent unchanged.
type AgentEvent struct {
	Base
	AgentID ids.AgentID
	Inner   Event
}

type AgentSpawned struct {
	Base
	AgentID  ids.AgentID
	ParentID string
	Profile  string
	Purpose  string
}

type AgentProgress struct {
	Base
	AgentID ids.AgentID
	Message string
}

type AgentCompleted struct {
	Base
	AgentID ids.AgentID
	Success bool
	Summary string
}

type BackgroundEvent struct {
	Base
	AgentID ids.AgentID
	Body    string
}

// --- constructors ------------------------------------------------------------

func NewTaskStarted(sub ids.SubID) TaskStarted { return TaskStarted{newBase(KindTaskStarted, sub)} }

func NewAgentMessageDelta(sub ids.SubID, delta string) AgentMessageDelta {
	return AgentMessageDelta{newBase(KindAgentMessageDelta, sub), delta}
}

func NewAgentMessage(sub ids.SubID, message string) AgentMessage {
	return AgentMessage{newBase(KindAgentMessage, sub), message}
}

func NewExecCommandBegin(sub ids.SubID, command, cwd string) ExecCommandBegin {
	return ExecCommandBegin{newBase(KindExecCommandBegin, sub), command, cwd}
}

func NewExecCommandEnd(sub ids.SubID, exitCode int) ExecCommandEnd {
	return ExecCommandEnd{newBase(KindExecCommandEnd, sub), exitCode}
}

func NewMcpToolCallBegin(sub ids.SubID, server, tool string) McpToolCallBegin {
	return McpToolCallBegin{newBase(KindMcpToolCallBegin, sub), server, tool}
}

func NewMcpToolCallEnd(sub ids.SubID, server, tool string, ok bool) McpToolCallEnd {
	return McpToolCallEnd{newBase(KindMcpToolCallEnd, sub), server, tool, ok}
}

func NewTokenCount(sub ids.SubID, contextWindow *int, remaining int) TokenCount {
	return TokenCount{newBase(KindTokenCount, sub), contextWindow, remaining}
}

func NewTaskComplete(sub ids.SubID, lastMessage *string) TaskComplete {
	return TaskComplete{newBase(KindTaskComplete, sub), lastMessage}
}

func NewError(sub ids.SubID, message string) Error {
	return Error{newBase(KindError, sub), message}
}

func NewTurnAborted(sub ids.SubID, reason AbortReason) TurnAborted {
	return TurnAborted{newBase(KindTurnAborted, sub), reason}
}

func NewAgentEvent(sub ids.SubID, agentID ids.AgentID, inner Event) AgentEvent {
	return AgentEvent{newBase(KindAgentEvent, sub), agentID, inner}
}

func NewAgentSpawned(sub ids.SubID, agentID ids.AgentID, parentID, profile, purpose string) AgentSpawned {
	return AgentSpawned{newBase(KindAgentSpawned, sub), agentID, parentID, profile, purpose}
}

func NewAgentProgress(sub ids.SubID, agentID ids.AgentID, message string) AgentProgress {
	return AgentProgress{newBase(KindAgentProgress, sub), agentID, message}
}

func NewAgentCompleted(sub ids.SubID, agentID ids.AgentID, success bool, summary string) AgentCompleted {
	return AgentCompleted{newBase(KindAgentCompleted, sub), agentID, success, summary}
}

func NewBackgroundEvent(sub ids.SubID, agentID ids.AgentID, body string) BackgroundEvent {
	return BackgroundEvent{newBase(KindBackgroundEvent, sub), agentID, body}
}
