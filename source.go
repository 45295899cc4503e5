package immersivereader

import (
	"context"
	"image"

	"github.com/allthingssecurity/immersivereader/text"
)

// Opener is the input capability: given a document id, it yields the
// decoded document. The document bytes themselves are owned by a storage
// collaborator behind this interface; a failure here is fatal for the
// job (the document cannot be opened at all).
type Opener interface {
	Open(ctx context.Context, documentID string) (Document, error)
}

// Document enumerates a decoded document's pages and exposes, per page,
// the positioned text runs and a raster fallback. Pages are 0-indexed.
//
// PageRuns may return an error for an individual page (e.g. a missing or
// corrupt content stream); such errors are recoverable and trigger the
// recognition fallback, never aborting the rest of the document.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageRuns returns the page's raw positioned text runs, unordered.
	PageRuns(ctx context.Context, page int) ([]text.RawRun, error)

	// RenderPage rasterizes the page at the given scale factor for the
	// recognition fallback.
	RenderPage(ctx context.Context, page int, scale float64) (image.Image, error)

	// Close releases the document's resources.
	Close() error
}
