package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestOpenDump(t *testing.T) {
	path := writeFile(t, "runs.json", `{
		"pages": [
			{"runs": [
				{"text": "Hello", "transform": [12, 0, 0, 12, 72, 700], "advance": 2.5},
				{"text": "world.", "transform": [12, 0, 0, 12, 110, 700], "advance": 3}
			]},
			{"error": "content stream missing"}
		]
	}`)

	opener, err := openDump(path, "doc")
	if err != nil {
		t.Fatalf("openDump: %v", err)
	}

	doc, err := opener.Open(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Errorf("Expected 2 pages, got %d", doc.PageCount())
	}

	runs, err := doc.PageRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("PageRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Text != "Hello" || runs[0].Transform.D != 12 || runs[0].Transform.F != 700 {
		t.Errorf("Run mapping wrong: %+v", runs[0])
	}

	if _, err := doc.PageRuns(context.Background(), 1); err == nil {
		t.Error("Expected page error for failed page")
	}
	if _, err := doc.PageRuns(context.Background(), 5); err == nil {
		t.Error("Expected out-of-range error")
	}
}

func TestOpenDump_UnknownDocument(t *testing.T) {
	path := writeFile(t, "runs.json", `{"pages": []}`)
	opener, err := openDump(path, "doc")
	if err != nil {
		t.Fatalf("openDump: %v", err)
	}
	if _, err := opener.Open(context.Background(), "other"); err == nil {
		t.Error("Expected error for unknown document id")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "irextract.yaml", "mode: accurate\nocr: true\ndb: out.db\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Mode != "accurate" || !cfg.OCR || cfg.DB != "out.db" {
		t.Errorf("Config mismatch: %+v", cfg)
	}
	if cfg.OCRLanguage != "eng" {
		t.Errorf("Expected default language eng, got %q", cfg.OCRLanguage)
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "mode: [unclosed")
	if _, err := loadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}
