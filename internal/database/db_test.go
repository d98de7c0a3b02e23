package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSQLiteCreatesScoresTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "scores.db")

	db, err := Open(ctx, NewSQLiteDialect(), DialectConfig{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	var name string
	err = db.DB.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", "scores").Scan(&name)
	if err != nil {
		t.Fatalf("scores table not found: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO scores (name, score, wpm, accuracy, correct_chars, date) VALUES (?, ?, ?, ?, ?, ?)",
		"alice", 10, 1, 100, 5, "2025-01-01 00:00:00"); err != nil {
		_ = tx.Rollback()
		t.Fatalf("insert: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var count int
	if err := db.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM scores").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	// Reopening must not fail on the existing table.
	_ = db.Close()
	db2, err := Open(ctx, NewSQLiteDialect(), DialectConfig{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = db2.Close()
}
