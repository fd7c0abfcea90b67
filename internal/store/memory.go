package store

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process. It backs local development and
// tests; documents are deep-copied on the way in and out.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]Document)}
}

// Get returns a copy of the stored document.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

// Put replaces the document under id.
func (s *MemoryStore) Put(_ context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.docs[collection]
	if !ok {
		coll = make(map[string]Document)
		s.docs[collection] = coll
	}
	coll[id] = doc.Clone()
	return nil
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return BackendMemory }
