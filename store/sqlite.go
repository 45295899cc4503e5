package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/allthingssecurity/immersivereader/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	page_count   INTEGER NOT NULL,
	extracted_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS blocks (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	level       INTEGER NOT NULL,
	text        TEXT NOT NULL,
	PRIMARY KEY (document_id, idx)
);
`

// SQLiteStore is a BlockStore backed by SQLite (modernc.org/sqlite,
// pure Go). Safe for concurrent use; WAL mode keeps readers unblocked
// while a replace transaction commits.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) an SQLite block store at path.
// The caller must blank-import the driver:
//
//	import _ "modernc.org/sqlite"
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-opened database, applying the schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Replace atomically replaces the document's block sequence in one
// transaction.
func (s *SQLiteStore) Replace(ctx context.Context, documentID string, pageCount int, blocks []model.Block) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, page_count) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET page_count = excluded.page_count,
		                               extracted_at = datetime('now')`,
		documentID, pageCount); err != nil {
		return fmt.Errorf("store: upsert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM blocks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("store: clear blocks: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO blocks (document_id, idx, kind, level, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer insert.Close()

	for i, b := range blocks {
		if _, err := insert.ExecContext(ctx, documentID, i, string(b.Kind), b.Level, b.Text); err != nil {
			return fmt.Errorf("store: insert block %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Blocks returns the persisted block sequence in index order.
func (s *SQLiteStore) Blocks(ctx context.Context, documentID string) ([]model.Block, error) {
	var pageCount int
	err := s.db.QueryRowContext(ctx,
		`SELECT page_count FROM documents WHERE id = ?`, documentID).Scan(&pageCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: lookup document: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, level, text FROM blocks WHERE document_id = ? ORDER BY idx`, documentID)
	if err != nil {
		return nil, fmt.Errorf("store: query blocks: %w", err)
	}
	defer rows.Close()

	var blocks []model.Block
	for rows.Next() {
		var kind string
		var b model.Block
		if err := rows.Scan(&kind, &b.Level, &b.Text); err != nil {
			return nil, fmt.Errorf("store: scan block: %w", err)
		}
		b.Kind = model.BlockKind(kind)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate blocks: %w", err)
	}
	return blocks, nil
}

// PageCount returns the persisted page count for a document.
func (s *SQLiteStore) PageCount(ctx context.Context, documentID string) (int, error) {
	var pageCount int
	err := s.db.QueryRowContext(ctx,
		`SELECT page_count FROM documents WHERE id = ?`, documentID).Scan(&pageCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("store: lookup document: %w", err)
	}
	return pageCount, nil
}
