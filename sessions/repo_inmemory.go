package sessions

import (
	"fmt"
	"sync"
)

// InMemoryRepo is the production session store: a mutex-guarded map.
// Session state deliberately lives only in process memory.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewInMemoryRepo creates an empty in-memory session store.
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{sessions: make(map[string]Session)}
}

// Upsert creates or replaces a session record.
func (r *InMemoryRepo) Upsert(id string, s Session) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = s
	return nil
}

// Get retrieves a session by id.
func (r *InMemoryRepo) Get(id string) (Session, error) {
	if id == "" {
		return Session{}, fmt.Errorf("session id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (r *InMemoryRepo) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
