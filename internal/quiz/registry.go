package quiz

import (
	"sync"

	"github.com/google/uuid"
)

// Registry holds live attempts keyed by id so the HTTP layer can drive them
// across requests. Attempts are ephemeral: a restart of the process drops
// them, matching a page reload in the original flow.
type Registry struct {
	mu       sync.RWMutex
	attempts map[string]*Attempt
}

func NewRegistry() *Registry {
	return &Registry{attempts: make(map[string]*Attempt)}
}

// Add registers an attempt and returns its id.
func (r *Registry) Add(a *Attempt) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.attempts[id] = a
	r.mu.Unlock()
	return id
}

func (r *Registry) Get(id string) (*Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return a, nil
}

// Remove drops a finished or abandoned attempt.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.attempts, id)
	r.mu.Unlock()
}
