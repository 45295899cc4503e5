// Package store persists extracted block sequences keyed by document id.
//
// The write contract is whole-sequence atomic replace: readers see either
// the prior sequence or the fully new one, never a partial interleaving.
// The SQLite implementation achieves this with a single transaction per
// replace.
package store

import (
	"context"
	"errors"

	"github.com/allthingssecurity/immersivereader/model"
)

// ErrNotFound is returned when no block sequence has been persisted for
// a document id.
var ErrNotFound = errors.New("store: document not found")

// BlockStore is the persistence collaborator of the reconstruction
// engine. Persistence format beyond "keyed by document id, whole-sequence
// atomic replace" is this package's concern, not the engine's.
type BlockStore interface {
	// Replace atomically replaces the full block sequence for a document.
	// A document's blocks are only ever written whole, by the single job
	// that owns the document at completion time.
	Replace(ctx context.Context, documentID string, pageCount int, blocks []model.Block) error

	// Blocks returns the persisted sequence in index order, or
	// ErrNotFound if the document has never completed an extraction.
	// Idempotent and side-effect free.
	Blocks(ctx context.Context, documentID string) ([]model.Block, error)

	// PageCount returns the page count recorded with the persisted
	// sequence, or ErrNotFound if the document has never completed an
	// extraction.
	PageCount(ctx context.Context, documentID string) (int, error)
}
