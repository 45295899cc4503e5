package store

import (
	"context"
	"sync"

	"github.com/allthingssecurity/immersivereader/model"
)

// MemoryStore is an in-memory BlockStore for tests and ephemeral use.
// Replace swaps the whole sequence under a lock, so readers observe the
// same prior-or-new atomicity as the SQLite store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryDoc

	// FailReplace, when non-nil, is returned by every Replace call.
	// Used by tests to simulate persistence failure.
	FailReplace error
}

type memoryDoc struct {
	pageCount int
	blocks    []model.Block
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryDoc)}
}

// Replace swaps the document's block sequence atomically. A cancelled
// context persists nothing, matching the SQLite store's transactional
// behaviour.
func (s *MemoryStore) Replace(ctx context.Context, documentID string, pageCount int, blocks []model.Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.FailReplace != nil {
		return s.FailReplace
	}
	copied := make([]model.Block, len(blocks))
	copy(copied, blocks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[documentID] = memoryDoc{pageCount: pageCount, blocks: copied}
	return nil
}

// Blocks returns the stored sequence, or ErrNotFound.
func (s *MemoryStore) Blocks(_ context.Context, documentID string) ([]model.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[documentID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.Block, len(doc.blocks))
	copy(out, doc.blocks)
	return out, nil
}

// PageCount returns the stored page count, or ErrNotFound.
func (s *MemoryStore) PageCount(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[documentID]
	if !ok {
		return 0, ErrNotFound
	}
	return doc.pageCount, nil
}
