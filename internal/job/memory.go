package job

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store for single-instance deployments.
// Records are stored and returned by value, so a record handed to Put or
// received from Get is never shared with other goroutines.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Get returns a copy of the record, or (nil, nil) when the id is unknown.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

// Put replaces the stored record wholesale.
func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}
