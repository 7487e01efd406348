// Command demo wires the orchestration runtime end to end against an
// in-process stub child, exercising a full spawn-and-report flow without
// external services. A real deployment swaps stubManager for
// llm/anthropic.New or llm/openai.New.
package main

import (
	"context"
	"fmt"
	"log"

	"orchestrun/aggregator"
	"orchestrun/childconfig"
	"orchestrun/conversation"
	"orchestrun/events"
	"orchestrun/ids"
	"orchestrun/registry"
	"orchestrun/returnprogress"
	"orchestrun/spawn"
	"orchestrun/telemetry"
)

// stubManager creates children that immediately say hello and complete,
// standing in for a real llm/anthropic or llm/openai manager.
type stubManager struct{}

func (stubManager) NewConversation(ctx context.Context, cfg childconfig.Config) (conversation.Created, error) {
	ch := make(chan events.Event, 8)
	ch <- events.NewTaskStarted("")
	ch <- events.NewAgentMessageDelta("", "Hello from the demo child agent.")
	msg := "Hello from the demo child agent."
	ch <- events.NewTaskComplete("", &msg)
	close(ch)
	return conversation.Created{
		ConversationID: ids.NewConversationID(),
		Conversation:   &stubChild{events: ch},
	}, nil
}

type stubChild struct{ events <-chan events.Event }

func (c *stubChild) Submit(context.Context, any) error { return nil }
func (c *stubChild) NextEvent(ctx context.Context) (events.Event, bool, error) {
	select {
	case ev, ok := <-c.events:
		return ev, ok, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// demoSession is the parent-side Session a real orchestrator process would
// implement over its own turn/conversation state.
type demoSession struct {
	convID   ids.ConversationID
	children map[ids.AgentID]conversation.ChildConversation
}

func (s *demoSession) SendEvent(_ context.Context, e events.Event) error {
	fmt.Printf("[parent event] %s\n", e.Kind())
	return nil
}
func (s *demoSession) RegisterChildAgent(id ids.AgentID, c conversation.ChildConversation) {
	s.children[id] = c
}
func (s *demoSession) UnregisterChildAgent(id ids.AgentID) { delete(s.children, id) }
func (s *demoSession) InjectInput(_ context.Context, items []string) error {
	for _, item := range items {
		fmt.Printf("[injected into parent turn]\n%s\n", item)
	}
	return nil
}
func (s *demoSession) ConversationID() ids.ConversationID { return s.convID }

func main() {
	ctx := context.Background()

	reg := registry.New()
	logger := telemetry.NewNoopLogger()
	tracer := telemetry.NewNoopTracer()

	builder := childconfig.Builder{}
	parentCfg := childconfig.Config{Cwd: ".", ReasoningEffort: "high"}

	spawnTool, err := spawn.New(reg, stubManager{}, builder, parentCfg, logger, tracer)
	if err != nil {
		log.Fatalf("build spawn tool: %v", err)
	}
	progressTool, err := returnprogress.New(reg, logger)
	if err != nil {
		log.Fatalf("build return_progress tool: %v", err)
	}
	_ = progressTool // wired for a real tool dispatcher; unused in this single-shot demo

	agg := aggregator.New()

	session := &demoSession{convID: ids.NewConversationID(), children: map[ids.AgentID]conversation.ChildConversation{}}
	weak, invalidate := conversation.NewWeakSession(session)
	defer invalidate()

	args := spawn.Args{TaskID: "child-demo", Purpose: "say hello", Prompt: "Say hello."}
	raw := fmt.Sprintf(`{"task_id":%q,"purpose":%q,"prompt":%q}`, args.TaskID, args.Purpose, args.Prompt)

	result, err := spawnTool.Invoke(ctx, spawn.Invocation{
		Session: weak,
		SubID:   "sub-demo-1",
		RawArgs: []byte(raw),
	})
	if err != nil {
		log.Fatalf("spawn_agent: %v", err)
	}

	agg.Record(aggregator.AgentOutputRecord{
		AgentID:         result.AgentID,
		Purpose:         args.Purpose,
		TruncatedOutput: result.MarkdownSummary,
		Success:         result.Status == "completed",
	}, aggregator.Validate(nil, nil))

	summary := agg.Summarize()
	fmt.Printf("\nagent_id=%s status=%s injected=%v\n%s\n", result.AgentID, result.Status, result.InjectedIntoTurn, result.MarkdownSummary)
	fmt.Printf("run summary: %d/%d agents succeeded\n", summary.SuccessfulAgents, summary.TotalAgents)
}
