package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration accepted via -config.
type fileConfig struct {
	// Mode is the extraction mode: "fast" or "accurate".
	Mode string `yaml:"mode"`

	// OCR enables the recognition fallback for failed pages.
	OCR bool `yaml:"ocr"`

	// OCRLanguage is the Tesseract language code (default "eng").
	OCRLanguage string `yaml:"ocr_language"`

	// DB is the SQLite block store path; empty means print-only.
	DB string `yaml:"db"`
}

func defaultConfig() fileConfig {
	return fileConfig{
		Mode:        "fast",
		OCRLanguage: "eng",
	}
}

func loadConfig(path string) (fileConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = "eng"
	}
	return cfg, nil
}
