// Package returnprogress implements the return_progress reverse-call tool:
// a tool the child conversation calls to write progress (or a final
// markdown body) onto its own bridge and notify the parent. The bridge is
// located by the calling conversation's own ID, the only identity a child
// knows.
package returnprogress

import (
	"context"
	"encoding/json"

	"orchestrun/events"
	"orchestrun/ids"
	"orchestrun/orcherr"
	"orchestrun/registry"
	"orchestrun/telemetry"
	"orchestrun/toolargs"
)

// Args is the decoded return_progress tool-call payload.
type Args struct {
	TaskID   string `json:"task_id,omitempty"`
	Progress string `json:"progress"`
	IsFinal  bool   `json:"is_final,omitempty"`
}

// Result is the structured result returned to the child's model.
type Result struct {
	Status  string `json:"status"`
	IsFinal bool   `json:"is_final"`
}

// Invocation carries the calling child's own conversation id, resolved from
// the invocation context by the host.
type Invocation struct {
	ConversationID ids.ConversationID
	RawArgs        []byte
}

// Tool implements return_progress.
type Tool struct {
	Registry  *registry.Registry
	Validator *toolargs.Validator
	Logger    telemetry.Logger
}

// New constructs a Tool, compiling the return_progress argument schema.
func New(reg *registry.Registry, logger telemetry.Logger) (*Tool, error) {
	v, err := toolargs.Compile("return_progress.json", toolargs.ReturnProgressSchema)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	return &Tool{Registry: reg, Validator: v, Logger: logger}, nil
}

// Invoke records the child's progress on its bridge and notifies the parent.
func (t *Tool) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	if err := t.Validator.Validate(inv.RawArgs); err != nil {
		return Result{}, err
	}
	var args Args
	if err := json.Unmarshal(inv.RawArgs, &args); err != nil {
		return Result{}, orcherr.Wrap(orcherr.KindBadArguments, "decode return_progress arguments", err)
	}

	b, ok := t.Registry.Get(inv.ConversationID)
	if !ok {
		return Result{}, orcherr.New(orcherr.KindNotASubagent, "no bridge registered for this conversation")
	}

	// task_id, if provided, must match the bridge's agent_id
	if args.TaskID != "" && ids.AgentID(args.TaskID) != b.AgentID {
		return Result{}, orcherr.New(orcherr.KindWrongAgent, "task_id does not match this conversation's agent")
	}

	parent, alive := b.ResolveParent()
	if !alive {
		return Result{}, orcherr.New(orcherr.KindParentGone, "parent session no longer exists")
	}

	b.SetLastProgress(args.Progress)
	if args.IsFinal {
		b.SetFinalMarkdown(args.Progress)
	}

	if err := parent.SendEvent(ctx, events.NewAgentProgress(b.ParentSubID, b.AgentID, args.Progress)); err != nil {
		t.Logger.Warn(ctx, "failed to emit AgentProgress from return_progress", "agent_id", b.AgentID, "err", err)
	}

	return Result{Status: "ok", IsFinal: args.IsFinal}, nil
}
