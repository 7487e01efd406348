// Package anthropic adapts github.com/anthropics/anthropic-sdk-go into a
// conversation.Manager / conversation.ChildConversation pair, so cmd/demo
// has a real model backend to spawn children against. The MessagesClient
// seam is narrow enough to fake in tests; a streaming goroutine translates
// SDK stream events into a buffered channel.
package anthropic

import (
	"context"
	"sync"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"orchestrun/childconfig"
	"orchestrun/conversation"
	"orchestrun/events"
	"orchestrun/ids"
)

// MessagesClient captures the subset of the SDK used here, so tests can
// supply a fake instead of a live HTTP client.
type MessagesClient interface {
	NewStreaming(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[sdk.MessageStreamEventUnion]
}

// Options configures the default model selection.
type Options struct {
	DefaultModel  string
	LowEffortModel string
	MaxTokens     int64
}

// Manager implements conversation.Manager, spawning one streaming request
// per child conversation.
type Manager struct {
	client MessagesClient
	opts   Options
}

// New builds an anthropic-backed conversation.Manager.
func New(client MessagesClient, opts Options) *Manager {
	return &Manager{client: client, opts: opts}
}

func (m *Manager) NewConversation(ctx context.Context, cfg childconfig.Config) (conversation.Created, error) {
	convID := ids.NewConversationID()
	model := m.opts.DefaultModel
	if cfg.ReasoningEffort == "low" && m.opts.LowEffortModel != "" {
		model = m.opts.LowEffortModel
	}
	child := &childConversation{
		client: m.client,
		model:  model,
		maxTok: m.opts.MaxTokens,
		events: make(chan events.Event, 64),
	}
	return conversation.Created{ConversationID: convID, Conversation: child}, nil
}

// childConversation drives a single streamed Anthropic request and exposes
// its events through the conversation.ChildConversation surface.
type childConversation struct {
	client MessagesClient
	model  string
	maxTok int64

	mu      sync.Mutex
	started bool

	events chan events.Event
}

func (c *childConversation) Submit(ctx context.Context, op any) error {
	input, ok := op.(conversation.UserInput)
	if !ok {
		// Interrupt: nothing to cancel on a one-shot stream beyond letting
		// the caller stop draining NextEvent.
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

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTok,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(text)),
		},
	}

	stream := c.client.NewStreaming(ctx, params)
	go c.pump(stream)
	return nil
}

func (c *childConversation) pump(stream *ssestream.Stream[sdk.MessageStreamEventUnion]) {
	defer close(c.events)

	c.events <- events.NewTaskStarted("")

	var final string
	for stream.Next() {
		ev := stream.Current()
		switch variant := ev.AsAny().(type) {
		case sdk.ContentBlockDeltaEvent:
			if textDelta, ok := variant.Delta.AsAny().(sdk.TextDelta); ok && textDelta.Text != "" {
				final += textDelta.Text
				c.events <- events.NewAgentMessageDelta("", textDelta.Text)
			}
		case sdk.MessageStopEvent:
			msg := final
			c.events <- events.NewTaskComplete("", &msg)
			return
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
