package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_ReplaceAndRead(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Replace(ctx, "doc", 2, sampleBlocks()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := s.Blocks(ctx, "doc")
	if err != nil {
		t.Fatalf("Blocks: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 blocks, got %d", len(got))
	}
	pages, err := s.PageCount(ctx, "doc")
	if err != nil || pages != 2 {
		t.Errorf("Expected page count 2, got %d (err %v)", pages, err)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Blocks(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Replace(ctx, "doc", 1, sampleBlocks()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	first, _ := s.Blocks(ctx, "doc")
	first[0].Text = "mutated"

	second, _ := s.Blocks(ctx, "doc")
	if second[0].Text == "mutated" {
		t.Error("Store handed out its internal slice")
	}
}

func TestMemoryStore_ReplaceHonoursCancellation(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Replace(ctx, "doc", 1, sampleBlocks()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, err := s.Blocks(context.Background(), "doc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cancelled replace must persist nothing, got %v", err)
	}
}

func TestMemoryStore_FailReplace(t *testing.T) {
	s := NewMemoryStore()
	s.FailReplace = errors.New("disk full")

	if err := s.Replace(context.Background(), "doc", 1, sampleBlocks()); err == nil {
		t.Error("Expected injected failure")
	}
	if _, err := s.Blocks(context.Background(), "doc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Failed replace must persist nothing, got %v", err)
	}
}

var _ BlockStore = (*MemoryStore)(nil)
var _ BlockStore = (*SQLiteStore)(nil)
