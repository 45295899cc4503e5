package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/bytedance/sonic"

	"github.com/allthingssecurity/immersivereader"
	"github.com/allthingssecurity/immersivereader/text"
)

// runsDump is the JSON interchange format a decoding front end exports:
// one entry per page, each holding its raw positioned runs or the
// page-level extraction error it hit.
type runsDump struct {
	Pages []dumpPage `json:"pages"`
}

type dumpPage struct {
	Runs []dumpRun `json:"runs"`
	// Error marks a page whose positional extraction failed upstream.
	Error string `json:"error,omitempty"`
}

type dumpRun struct {
	Text      string     `json:"text"`
	Transform [6]float64 `json:"transform"` // [a b c d e f]
	Advance   float64    `json:"advance"`
}

// dumpOpener serves a single pre-decoded document from a runs dump.
type dumpOpener struct {
	documentID string
	dump       runsDump
}

// openDump loads a runs dump from disk.
func openDump(path, documentID string) (*dumpOpener, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	var dump runsDump
	if err := sonic.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parse dump: %w", err)
	}
	return &dumpOpener{documentID: documentID, dump: dump}, nil
}

func (o *dumpOpener) Open(_ context.Context, documentID string) (immersivereader.Document, error) {
	if documentID != o.documentID {
		return nil, fmt.Errorf("unknown document %q", documentID)
	}
	return &dumpDocument{dump: o.dump}, nil
}

type dumpDocument struct {
	dump runsDump
}

func (d *dumpDocument) PageCount() int {
	return len(d.dump.Pages)
}

func (d *dumpDocument) PageRuns(_ context.Context, page int) ([]text.RawRun, error) {
	if page < 0 || page >= len(d.dump.Pages) {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	p := d.dump.Pages[page]
	if p.Error != "" {
		return nil, errors.New(p.Error)
	}

	runs := make([]text.RawRun, 0, len(p.Runs))
	for _, r := range p.Runs {
		t := r.Transform
		runs = append(runs, text.RawRun{
			Text:      r.Text,
			Transform: text.Matrix{A: t[0], B: t[1], C: t[2], D: t[3], E: t[4], F: t[5]},
			Advance:   r.Advance,
		})
	}
	return runs, nil
}

func (d *dumpDocument) RenderPage(_ context.Context, page int, _ float64) (image.Image, error) {
	return nil, fmt.Errorf("page %d: runs dump carries no raster data", page)
}

func (d *dumpDocument) Close() error {
	return nil
}
