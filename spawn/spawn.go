// Package spawn implements the spawn_agent tool: the parent-side handler
// that builds a child configuration, creates a child conversation, registers
// a bridge, submits the child's prompt, starts the event monitor, and blocks
// until the child's outcome is ready. The monitor runs as a detached
// goroutine and signals completion over a single-shot outcome channel.
package spawn

import (
	"context"
	"encoding/json"
	"fmt"

	"orchestrun/bridge"
	"orchestrun/childconfig"
	"orchestrun/conversation"
	"orchestrun/events"
	"orchestrun/ids"
	"orchestrun/monitor"
	"orchestrun/orcherr"
	"orchestrun/registry"
	"orchestrun/telemetry"
	"orchestrun/toolargs"
)

// Args is the decoded spawn_agent tool-call payload.
type Args struct {
	TaskID    string   `json:"task_id"`
	Purpose   string   `json:"purpose"`
	Prompt    string   `json:"prompt"`
	Profile   string   `json:"profile,omitempty"`
	Checklist []string `json:"checklist,omitempty"`
}

// Result is the structured JSON result returned to the model.
type Result struct {
	AgentID          string `json:"agent_id"`
	Status           string `json:"status"` // "completed" | "failed"
	MarkdownSummary  string `json:"markdown_summary"`
	InjectedIntoTurn bool   `json:"injected_into_turn"`
}

// Invocation carries the preconditions of a spawn_agent call: a parent
// session handle, the parent's correlation sub_id, and the raw function-call
// arguments.
type Invocation struct {
	Session conversation.WeakSession
	SubID   ids.SubID
	RawArgs []byte
}

// Tool implements spawn_agent.
type Tool struct {
	Registry       *registry.Registry
	Manager        conversation.Manager
	ConfigBuilder  childconfig.Builder
	ParentConfig   childconfig.Config
	Validator      *toolargs.Validator
	Logger         telemetry.Logger
	Tracer         telemetry.Tracer
}

// New constructs a Tool, compiling the spawn_agent argument schema.
func New(reg *registry.Registry, mgr conversation.Manager, builder childconfig.Builder, parentCfg childconfig.Config, logger telemetry.Logger, tracer telemetry.Tracer) (*Tool, error) {
	v, err := toolargs.Compile("spawn_agent.json", toolargs.SpawnAgentSchema)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	if tracer == nil {
		tracer = telemetry.NewNoopTracer()
	}
	return &Tool{
		Registry: reg, Manager: mgr, ConfigBuilder: builder, ParentConfig: parentCfg,
		Validator: v, Logger: logger, Tracer: tracer,
	}, nil
}

// Invoke runs the full spawn-and-await sequence.
func (t *Tool) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	if inv.Session == nil {
		return Result{}, orcherr.New(orcherr.KindBadInvocation, "invocation missing parent session")
	}

	ctx, span := t.Tracer.Start(ctx, "spawn_agent")
	defer span.End()

	// step 1: parse arguments
	if err := t.Validator.Validate(inv.RawArgs); err != nil {
		span.SetError(err)
		return Result{}, err
	}
	var args Args
	if err := json.Unmarshal(inv.RawArgs, &args); err != nil {
		err = orcherr.Wrap(orcherr.KindBadArguments, "decode spawn_agent arguments", err)
		span.SetError(err)
		return Result{}, err
	}

	agentID := ids.AgentID(args.TaskID)

	// step 2: build child configuration
	childCfg, err := t.ConfigBuilder.Build(t.ParentConfig, args.Profile)
	if err != nil {
		span.SetError(err)
		return Result{}, err
	}

	// step 3: create child conversation
	created, err := t.Manager.NewConversation(ctx, childCfg)
	if err != nil {
		err = orcherr.Wrap(orcherr.KindConversationCreateFailed, "create child conversation", err)
		span.SetError(err)
		return Result{}, err
	}

	// step 4: build and register the bridge before anything else
	b := bridge.New(agentID, inv.SubID, created.ConversationID, inv.Session)
	if err := t.Registry.Register(b); err != nil {
		span.SetError(err)
		return Result{}, err
	}

	// step 5: emit AgentSpawned, correlated by sub_id
	spawned := events.NewAgentSpawned(inv.SubID, agentID, "orchestrator-main", args.Profile, args.Purpose)
	if err := inv.Session.SendEvent(ctx, spawned); err != nil {
		t.Logger.Warn(ctx, "failed to emit AgentSpawned", "agent_id", agentID, "err", err)
	}

	// step 6: submit the child's initial prompt
	if err := created.Conversation.Submit(ctx, conversation.UserInput{Items: []string{args.Prompt}}); err != nil {
		t.Registry.Remove(created.ConversationID)
		err = orcherr.Wrap(orcherr.KindPromptSubmitFailed, "submit child prompt", err)
		span.SetError(err)
		return Result{}, err
	}

	// step 7: register the child with the parent's active-child index
	inv.Session.RegisterChildAgent(agentID, created.Conversation)

	// step 8: start the Event Monitor as a detached task
	outcomeCh := make(chan monitor.Outcome, 1)
	m := monitor.New(agentID, inv.SubID, created.ConversationID, t.Registry, b, inv.Session, created.Conversation, t.Logger, t.Tracer)
	go m.Run(context.WithoutCancel(ctx), outcomeCh)

	// step 9: await the outcome channel
	outcome, ok := <-outcomeCh
	if !ok {
		return Result{
			AgentID:          string(agentID),
			Status:           "failed",
			MarkdownSummary:  fmt.Sprintf("## Subagent `%s` did not report a result", agentID),
			InjectedIntoTurn: false,
		}, nil
	}

	// step 10: translate the outcome into the tool's structured JSON result
	status := "completed"
	if !outcome.Success {
		status = "failed"
	}
	return Result{
		AgentID:          string(agentID),
		Status:           status,
		MarkdownSummary:  outcome.Markdown,
		InjectedIntoTurn: outcome.InjectedIntoTurn,
	}, nil
}
