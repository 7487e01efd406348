package monitor_test

import (
	"context"
	"sync"

	"orchestrun/conversation"
	"orchestrun/events"
	"orchestrun/ids"
)

// fakeSession is a minimal conversation.Session used across monitor tests;
// it records every event it is sent and every injection attempt.
type fakeSession struct {
	mu          sync.Mutex
	sent        []events.Event
	injected    [][]string
	injectErr   error
	registered  []ids.AgentID
	unregistered []ids.AgentID
	id          ids.ConversationID
}

func (f *fakeSession) SendEvent(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, event)
	return nil
}

func (f *fakeSession) RegisterChildAgent(agentID ids.AgentID, _ conversation.ChildConversation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, agentID)
}

func (f *fakeSession) UnregisterChildAgent(agentID ids.AgentID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered = append(f.unregistered, agentID)
}

func (f *fakeSession) InjectInput(_ context.Context, items []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.injected = append(f.injected, items)
	return f.injectErr
}

func (f *fakeSession) ConversationID() ids.ConversationID { return f.id }

func (f *fakeSession) eventsOfKind(k events.Kind) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, e := range f.sent {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

// fakeChildConversation replays a fixed sequence of events, then reports
// stream closure.
type fakeChildConversation struct {
	mu     sync.Mutex
	queue  []events.Event
	submitted []any
}

func (f *fakeChildConversation) Submit(_ context.Context, op any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, op)
	return nil
}

func (f *fakeChildConversation) NextEvent(_ context.Context) (events.Event, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, false, nil
	}
	ev := f.queue[0]
	f.queue = f.queue[1:]
	return ev, true, nil
}
