// Package immersivereader converts a document's raw positioned text runs
// into an ordered sequence of semantic blocks — paragraphs and headings —
// suitable for flowed, reflowable reading.
//
// The engine clusters each page's glyph runs into visual lines, joins
// them with punctuation-aware spacing, assembles lines into paragraphs
// (repairing hyphenation across soft line breaks and tagging large-font
// paragraphs as headings), and falls back to optical recognition when a
// page's positional text is unavailable. The resulting blocks are
// persisted whole, keyed by document id, and completion is broadcast to
// any number of listeners.
//
// Basic usage:
//
//	engine := immersivereader.New(opener, blockStore)
//	outcome := engine.Run(ctx, "doc-42", immersivereader.Options{
//	    Mode:      model.ModeAccurate,
//	    EnableOCR: false,
//	})
//	if outcome.Err != nil {
//	    // handle failure; nothing was persisted
//	}
//	blocks, ok, err := engine.Blocks(ctx, "doc-42")
//
// PDF decoding, page rendering, theming, read-aloud and search surfaces
// are external collaborators reached through the Opener and Document
// interfaces and the BlockStore contract.
package immersivereader

import (
	"io"
	"log/slog"
	"sync"

	"github.com/allthingssecurity/immersivereader/ocr"
	"github.com/allthingssecurity/immersivereader/store"
)

// defaultOCRUpscale is the fixed raster upscale factor used by the
// recognition fallback path.
const defaultOCRUpscale = 2.0

// Engine is the document reconstruction engine. It schedules at most one
// extraction job per document id, runs pages sequentially within a job,
// persists the finished block sequence atomically, and broadcasts
// completion. Safe for concurrent use.
type Engine struct {
	opener     Opener
	blocks     store.BlockStore
	recognizer ocr.Recognizer
	logger     *slog.Logger
	ocrUpscale float64

	mu    sync.Mutex
	jobs  map[string]*job
	locks map[string]*sync.Mutex

	notifier *notifier
}

// job tracks one in-flight extraction so a later request for the same
// document can supersede it.
type job struct {
	cancel func()
}

// EngineOption customises Engine construction.
type EngineOption func(*Engine)

// WithRecognizer injects the optical recognition capability used by the
// per-page fallback path. Without a recognizer, pages that fail
// positional extraction always degrade to the sentinel paragraph.
func WithRecognizer(r ocr.Recognizer) EngineOption {
	return func(e *Engine) { e.recognizer = r }
}

// WithLogger sets the engine's structured logger. The default discards
// all output.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over the given document source and block store.
func New(opener Opener, blocks store.BlockStore, opts ...EngineOption) *Engine {
	e := &Engine{
		opener:     opener,
		blocks:     blocks,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		ocrUpscale: defaultOCRUpscale,
		jobs:       make(map[string]*job),
		locks:      make(map[string]*sync.Mutex),
		notifier:   newNotifier(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers a completion listener. Every extraction outcome —
// success or failure — is broadcast to all subscribers registered at the
// time the job finishes, so a listener opened after a job started still
// receives its result. The returned cancel function must be called to
// release the subscription.
//
// Delivery is fire-and-forget: a subscriber that stops draining its
// channel loses outcomes rather than blocking the engine.
func (e *Engine) Subscribe() (<-chan Outcome, func()) {
	return e.notifier.subscribe()
}
