package immersivereader

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/allthingssecurity/immersivereader/layout"
	"github.com/allthingssecurity/immersivereader/model"
	"github.com/allthingssecurity/immersivereader/raster"
	"github.com/allthingssecurity/immersivereader/text"
)

// PageFallbackText is the literal sentinel paragraph emitted for a page
// that could not be extracted and was not recovered by recognition. Its
// presence in the block sequence tells a surrounding UI to offer the
// rasterized page view for that page.
const PageFallbackText = "[This page could not be converted to reflowable text. Use the page view to read it.]"

// extract runs the whole document, page by page, and returns the
// document-level block sequence. Page processing is sequential: page i+1
// is not started before page i's blocks are finalized, which trivially
// satisfies the page-major ordering invariant. Only document-open errors
// and cancellation are returned; per-page failures degrade to fallback
// blocks.
func (e *Engine) extract(ctx context.Context, documentID string, opts Options) ([]model.Block, int, error) {
	doc, err := e.opener.Open(ctx, documentID)
	if err != nil {
		return nil, 0, fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	cfg := layout.ConfigFor(opts.Mode)
	pageCount := doc.PageCount()

	var blocks []model.Block
	for page := 0; page < pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		pageBlocks, err := e.extractPage(ctx, doc, page, cfg, opts)
		if err != nil {
			return nil, 0, err
		}
		blocks = append(blocks, pageBlocks...)
	}
	return blocks, pageCount, nil
}

// extractPage reconstructs one page. The returned error is only ever a
// cancellation; extraction failures are converted to fallback blocks.
func (e *Engine) extractPage(ctx context.Context, doc Document, page int, cfg layout.Config, opts Options) ([]model.Block, error) {
	runs, err := doc.PageRuns(ctx, page)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return e.fallbackPage(ctx, doc, page, opts, err)
	}

	tokens := text.Ingest(runs)
	blocks := layout.AssemblePage(tokens, cfg)
	// EscapeString escapes quotes in addition to & < >. The superset is
	// intentional: block text must stay safe inside HTML attribute values
	// too, and the mapping remains fixed and deterministic.
	for i := range blocks {
		blocks[i].Text = html.EscapeString(blocks[i].Text)
	}
	return blocks, nil
}

// fallbackPage handles a page whose positional extraction failed: one
// best-effort recognition paragraph when OCR is enabled and succeeds,
// otherwise the sentinel paragraph. The page degrades; the document
// continues.
func (e *Engine) fallbackPage(ctx context.Context, doc Document, page int, opts Options, cause error) ([]model.Block, error) {
	e.logger.Warn("page extraction failed", "page", page, "error", cause)

	if !opts.EnableOCR || e.recognizer == nil {
		return []model.Block{model.Paragraph(PageFallbackText)}, nil
	}

	recognized, err := e.recognizePage(ctx, doc, page)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("page recognition failed", "page", page, "error", err)
		return []model.Block{model.Paragraph(PageFallbackText)}, nil
	}
	if recognized == "" {
		return []model.Block{model.Paragraph(PageFallbackText)}, nil
	}

	// Recognition output becomes a single best-effort paragraph; no
	// paragraph splitting is attempted on it.
	return []model.Block{model.Paragraph(html.EscapeString(recognized))}, nil
}

// recognizePage rasterizes the page at the fixed upscale factor and runs
// it through the recognition capability.
func (e *Engine) recognizePage(ctx context.Context, doc Document, page int) (string, error) {
	img, err := doc.RenderPage(ctx, page, e.ocrUpscale)
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}

	encoded, err := raster.EncodeGrayPNG(img)
	if err != nil {
		return "", fmt.Errorf("encode page raster: %w", err)
	}

	recognized, err := e.recognizer.Recognize(ctx, encoded)
	if err != nil {
		return "", fmt.Errorf("recognize page: %w", err)
	}

	recognized = norm.NFC.String(recognized)
	return strings.Join(strings.Fields(recognized), " "), nil
}
