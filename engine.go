package immersivereader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/allthingssecurity/immersivereader/model"
	"github.com/allthingssecurity/immersivereader/store"
)

// ErrSuperseded is the failure cause of a job that lost its document
// slot to a newer extraction request for the same document id.
var ErrSuperseded = errors.New("extraction superseded by a newer request")

// Run executes one extraction job synchronously and returns its outcome.
//
// At most one job per document id is active at a time: a second request
// for the same document supersedes the first, cancelling it outright. A
// superseded or cancelled job persists nothing and reports failure, so
// exactly one block sequence (the newest job's) is ever persisted.
//
// On success the full block sequence is persisted — atomically, whole —
// before the outcome is broadcast to subscribers. On failure nothing is
// persisted and the prior sequence, if any, remains visible to readers.
func (e *Engine) Run(ctx context.Context, documentID string, opts Options) Outcome {
	opts, err := opts.normalize()
	if err != nil {
		return e.finish(Outcome{DocumentID: documentID, Err: err}, nil, "")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	j := &job{cancel: cancel}

	e.mu.Lock()
	if prev := e.jobs[documentID]; prev != nil {
		prev.cancel()
	}
	e.jobs[documentID] = j
	e.mu.Unlock()

	e.logger.Info("extraction started",
		"document", documentID, "mode", string(opts.Mode), "ocr", opts.EnableOCR)

	blocks, pages, err := e.extract(runCtx, documentID, opts)

	if err == nil {
		// Persist before signalling completion; absent persistence is
		// indistinguishable from non-extraction to consumers.
		err = e.persist(runCtx, documentID, j, pages, blocks)
	}

	out := Outcome{DocumentID: documentID, Err: err}
	if err == nil {
		out.Pages = pages
	}
	return e.finish(out, j, documentID)
}

// Start runs an extraction asynchronously; the outcome is delivered to
// subscribers. Extraction never blocks the caller's goroutine.
func (e *Engine) Start(ctx context.Context, documentID string, opts Options) {
	go e.Run(ctx, documentID, opts)
}

// Blocks returns the persisted block sequence for a document id, or
// ok=false when no completed extraction exists. Idempotent and
// side-effect free.
func (e *Engine) Blocks(ctx context.Context, documentID string) ([]model.Block, bool, error) {
	blocks, err := e.blocks.Blocks(ctx, documentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blocks, true, nil
}

// Pages returns the page count recorded with a document's persisted
// sequence, or ok=false when no completed extraction exists. It counts
// every page of the source document, including pages that degraded to
// the fallback paragraph.
func (e *Engine) Pages(ctx context.Context, documentID string) (int, bool, error) {
	pages, err := e.blocks.PageCount(ctx, documentID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return pages, true, nil
}

// persist writes the block sequence while holding the document's persist
// lock, re-verifying slot ownership inside the lock. The lock serializes
// Replace calls per document, so a job that loses its slot to a
// superseding request can never commit after (and thereby over) the
// newer job: the loser either fails the ownership check or writes
// strictly before the winner does.
func (e *Engine) persist(ctx context.Context, documentID string, j *job, pages int, blocks []model.Block) error {
	lock := e.persistLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	if !e.owns(documentID, j) {
		return ErrSuperseded
	}
	if err := e.blocks.Replace(ctx, documentID, pages, blocks); err != nil {
		return fmt.Errorf("persist blocks: %w", err)
	}
	return nil
}

// persistLock returns the per-document persist lock, creating it on
// first use. Locks are tiny and keyed by document id, so they are kept
// for the engine's lifetime rather than reference-counted.
func (e *Engine) persistLock(documentID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[documentID] = lock
	}
	return lock
}

// owns reports whether j still holds the document's job slot.
func (e *Engine) owns(documentID string, j *job) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.jobs[documentID] == j
}

// finish releases the job slot if still owned, logs, and broadcasts the
// outcome.
func (e *Engine) finish(out Outcome, j *job, documentID string) Outcome {
	if j != nil {
		e.mu.Lock()
		if e.jobs[documentID] == j {
			delete(e.jobs, documentID)
		}
		e.mu.Unlock()
	}

	if out.Err != nil {
		e.logger.Warn("extraction failed", "document", out.DocumentID, "error", out.Err)
	} else {
		e.logger.Info("extraction completed", "document", out.DocumentID, "pages", out.Pages)
	}

	e.notifier.publish(out)
	return out
}
