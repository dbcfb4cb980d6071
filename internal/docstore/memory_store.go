package docstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store, used in tests and
// anywhere a real database is not wanted.
type MemoryStore struct {
	watchHub
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
	}
}

// Put creates or replaces the document at (collection, id).
func (s *MemoryStore) Put(collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string][]byte)
	}
	s.collections[collection][id] = data
	s.mu.Unlock()

	s.notify(Event{Collection: collection, DocID: id, Kind: EventPut})
	return nil
}

// Patch merges fields into the existing document at (collection, id).
func (s *MemoryStore) Patch(collection, id string, fields map[string]any) error {
	s.mu.Lock()
	data, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	merged := make(map[string]any)
	if err := json.Unmarshal(data, &merged); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("stored document is not valid JSON: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	out, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.collections[collection][id] = out
	s.mu.Unlock()

	s.notify(Event{Collection: collection, DocID: id, Kind: EventPatch})
	return nil
}

// Delete removes the document at (collection, id); absent ids are a no-op.
func (s *MemoryStore) Delete(collection, id string) error {
	s.mu.Lock()
	delete(s.collections[collection], id)
	s.mu.Unlock()

	s.notify(Event{Collection: collection, DocID: id, Kind: EventDelete})
	return nil
}

// Get returns the raw document at (collection, id), or ErrNotFound.
func (s *MemoryStore) Get(collection, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return json.RawMessage(data), nil
}

// GetAll returns every document in the collection, ordered by id.
func (s *MemoryStore) GetAll(collection string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, json.RawMessage(s.collections[collection][id]))
	}
	return docs, nil
}
