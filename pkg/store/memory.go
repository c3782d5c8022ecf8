package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory diagram store for development and tests.
// Diagrams do not survive process restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*Diagram
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		diagrams: make(map[string]*Diagram),
	}
}

// Get retrieves a diagram by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	d, ok := s.diagrams[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if d.IsExpired() {
		return nil, ErrExpired
	}

	// Copy so callers can't mutate stored state.
	cp := *d
	return &cp, nil
}

// Put stores a diagram.
func (s *MemoryStore) Put(ctx context.Context, d *Diagram) error {
	cp := *d
	s.mu.Lock()
	s.diagrams[d.ID] = &cp
	s.mu.Unlock()
	return nil
}

// Delete removes a diagram.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.diagrams, id)
	s.mu.Unlock()
	return nil
}

// Cleanup removes expired diagrams.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.diagrams {
		if d.IsExpired() {
			delete(s.diagrams, id)
		}
	}
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
