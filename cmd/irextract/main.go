// Command irextract runs the document reconstruction engine over a
// positioned-runs dump produced by a PDF decoding front end.
//
// Usage:
//
//	irextract -input runs.json -doc mydoc                # print blocks
//	irextract -input runs.json -doc mydoc -db blocks.db  # persist to SQLite
//	irextract -input runs.json -doc mydoc -config irextract.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/allthingssecurity/immersivereader"
	"github.com/allthingssecurity/immersivereader/model"
	"github.com/allthingssecurity/immersivereader/ocr"
	"github.com/allthingssecurity/immersivereader/store"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "positioned-runs dump (JSON)")
		configPath = flag.String("config", "", "YAML config file")
		docID      = flag.String("doc", "document", "document id")
		mode       = flag.String("mode", "", "extraction mode: fast or accurate")
		enableOCR  = flag.Bool("ocr", false, "enable recognition fallback")
		dbPath     = flag.String("db", "", "SQLite block store path (omit to print only)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if err := run(*inputPath, *configPath, *docID, *mode, *enableOCR, *dbPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "irextract:", err)
		os.Exit(1)
	}
}

func run(inputPath, configPath, docID, mode string, enableOCR bool, dbPath string, verbose bool) error {
	cfg := defaultConfig()
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// Flags override the config file.
	if mode != "" {
		cfg.Mode = mode
	}
	if enableOCR {
		cfg.OCR = true
	}
	if dbPath != "" {
		cfg.DB = dbPath
	}

	if inputPath == "" {
		return fmt.Errorf("missing -input")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opener, err := openDump(inputPath, docID)
	if err != nil {
		return err
	}

	var blockStore store.BlockStore
	if cfg.DB != "" {
		s, err := store.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer s.Close()
		blockStore = s
	} else {
		blockStore = store.NewMemoryStore()
	}

	engineOpts := []immersivereader.EngineOption{immersivereader.WithLogger(logger)}
	if cfg.OCR {
		recognizer, err := ocr.New(cfg.OCRLanguage)
		if err != nil {
			logger.Warn("recognition unavailable, failed pages will emit the sentinel", "error", err)
		} else {
			defer recognizer.Close()
			engineOpts = append(engineOpts, immersivereader.WithRecognizer(recognizer))
		}
	}

	engine := immersivereader.New(opener, blockStore, engineOpts...)

	ctx := context.Background()
	outcome := engine.Run(ctx, docID, immersivereader.Options{
		Mode:      model.Mode(cfg.Mode),
		EnableOCR: cfg.OCR,
	})
	if outcome.Err != nil {
		return outcome.Err
	}

	blocks, ok, err := engine.Blocks(ctx, docID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no blocks persisted for %q", docID)
	}

	// Report the page count from the store rather than the outcome: what
	// was persisted is what downstream readers will see.
	pages, ok, err := engine.Pages(ctx, docID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no page count persisted for %q", docID)
	}

	fmt.Printf("document %s: %d pages, %d blocks\n", docID, pages, len(blocks))
	for i, b := range blocks {
		tag := "p"
		if b.IsHeading() {
			tag = fmt.Sprintf("h%d", b.Level)
		}
		fmt.Printf("%4d [%s] %s\n", i, tag, b.Text)
	}
	return nil
}
