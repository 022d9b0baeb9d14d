package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/geocoder89/formhub/internal/domain/document"
	"github.com/google/uuid"
)

// DocumentStore keeps collections in process memory. It backs local runs and
// tests; nothing survives a restart.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]document.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]document.Document),
	}
}

func (s *DocumentStore) Add(ctx context.Context, collection string, doc document.Document) (string, error) {
	id := uuid.NewString()

	return id, s.Set(ctx, collection, id, doc)
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = make(map[string]document.Document)
		s.collections[collection] = c
	}
	c[id] = maps.Clone(doc)

	return nil
}

func (s *DocumentStore) Get(collection, id string) (document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, false
	}
	return maps.Clone(doc), true
}

func (s *DocumentStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.collections[collection])
}
