// Package registry implements the process-wide, concurrency-safe mapping
// from conversation ID to the bridge of the child running under it.
package registry

import (
	"sync"

	"orchestrun/bridge"
	"orchestrun/ids"
	"orchestrun/orcherr"
)

// Registry is injected as a shared dependency: it is reachable from the
// child's own execution path, which only knows its conversation ID and has
// no parent handle, so it must not be a per-session object. Its lifetime is
// the process lifetime. It is never a global singleton.
type Registry struct {
	mu       sync.RWMutex
	bridges  map[ids.ConversationID]*bridge.Bridge
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{bridges: make(map[ids.ConversationID]*bridge.Bridge)}
}

// Register inserts b, failing with RegistryInsertFailed if a bridge is
// already present for b.ConversationID.
func (r *Registry) Register(b *bridge.Bridge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bridges[b.ConversationID]; exists {
		return orcherr.RegistryInsertFailed(b.ConversationID)
	}
	r.bridges[b.ConversationID] = b
	return nil
}

// Get looks up the bridge for id, if any.
func (r *Registry) Get(id ids.ConversationID) (*bridge.Bridge, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bridges[id]
	return b, ok
}

// Remove deletes the bridge for id. It is idempotent: removing an id that
// is not present is a no-op and returns false.
func (r *Registry) Remove(id ids.ConversationID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bridges[id]; !exists {
		return false
	}
	delete(r.bridges, id)
	return true
}

// Len reports the current number of live bridges; diagnostic only, never
// used on the spawn/monitor/return_progress hot path.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bridges)
}

// Snapshot returns a point-in-time copy of the registry contents, for
// diagnostics only.
func (r *Registry) Snapshot() map[ids.ConversationID]*bridge.Bridge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[ids.ConversationID]*bridge.Bridge, len(r.bridges))
	for k, v := range r.bridges {
		out[k] = v
	}
	return out
}
