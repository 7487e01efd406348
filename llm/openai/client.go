// Package openai adapts github.com/openai/openai-go into a
// conversation.Manager / conversation.ChildConversation pair, the second
// model backend cmd/demo can spawn children against. It uses the SDK's
// streaming surface since the event monitor needs incremental
// AgentMessageDelta events rather than one final response.
package openai

import (
	"context"
	"sync"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"orchestrun/childconfig"
	"orchestrun/conversation"
	"orchestrun/events"
	"orchestrun/ids"
)

// StreamingClient captures the subset of the SDK used here, so tests can
// supply a fake instead of a live HTTP client.
type StreamingClient interface {
	NewStreaming(ctx context.Context, body oai.ChatCompletionNewParams, opts ...option.RequestOption) *ssestream.Stream[oai.ChatCompletionChunk]
}

// Options configures the default model selection.
type Options struct {
	DefaultModel   string
	LowEffortModel string
}

// Manager implements conversation.Manager, spawning one streaming chat
// completion per child conversation.
type Manager struct {
	client StreamingClient
	opts   Options
}

// New builds an openai-backed conversation.Manager.
func New(client StreamingClient, opts Options) *Manager {
	return &Manager{client: client, opts: opts}
}

func (m *Manager) NewConversation(ctx context.Context, cfg childconfig.Config) (conversation.Created, error) {
	model := m.opts.DefaultModel
	if cfg.ReasoningEffort == "low" && m.opts.LowEffortModel != "" {
		model = m.opts.LowEffortModel
	}
	child := &childConversation{
		client: m.client,
		model:  model,
		events: make(chan events.Event, 64),
	}
	return conversation.Created{ConversationID: ids.NewConversationID(), Conversation: child}, nil
}

type childConversation struct {
	client StreamingClient
	model  string

	mu      sync.Mutex
	started bool

	events chan events.Event
}

func (c *childConversation) Submit(ctx context.Context, op any) error {
	input, ok := op.(conversation.UserInput)
	if !ok {
		return nil
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	var text string
	for _, item := range input.Items {
		text += item
	}

	params := oai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.UserMessage(text),
		},
	}

	stream := c.client.NewStreaming(ctx, params)
	go c.pump(stream)
	return nil
}

func (c *childConversation) pump(stream *ssestream.Stream[oai.ChatCompletionChunk]) {
	defer close(c.events)

	c.events <- events.NewTaskStarted("")

	var final string
	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if delta := choice.Delta.Content; delta != "" {
				final += delta
				c.events <- events.NewAgentMessageDelta("", delta)
			}
		}
	}
	if err := stream.Err(); err != nil {
		c.events <- events.NewError("", err.Error())
		return
	}
	msg := final
	c.events <- events.NewTaskComplete("", &msg)
}

func (c *childConversation) NextEvent(ctx context.Context) (events.Event, bool, error) {
	select {
	case ev, ok := <-c.events:
		return ev, ok, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
