package session

import (
	"sync"

	"github.com/google/uuid"
)

// Registry holds the live runners of in-flight sessions, keyed by
// session ID. Sessions are ephemeral: the registry is in-memory only
// and a restart drops them, which is safe because every accepted rating
// was already persisted before the runner advanced.
type Registry struct {
	mu      sync.RWMutex
	runners map[uuid.UUID]*Runner
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		runners: make(map[uuid.UUID]*Runner),
	}
}

// Add registers a runner under its session ID.
func (r *Registry) Add(runner *Runner) {
	if runner == nil {
		panic("runner cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[runner.Session().ID] = runner
}

// Get returns the runner for a session.
// Returns ErrSessionNotFound if no live session has that ID.
func (r *Registry) Get(id uuid.UUID) (*Runner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runner, ok := r.runners[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return runner, nil
}

// Remove drops a runner from the registry. Removing an unknown ID is a
// no-op.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runners, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runners)
}
