package leaderboard

import (
	"context"
	"fmt"
	"strings"

	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	database "github.com/CodeAndHammer/typeproof/internal/database"
)

type Options struct {
	Backend     string
	Path        string
	DatabaseURL string
}

// Open builds the store for the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" || backend == constants.BackendFile {
		return NewFileStore(opts.Path)
	}

	dialect, err := database.DialectFor(backend)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, dialect, database.DialectConfig{Path: sqlitePath(dialect, opts.Path), URL: opts.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s leaderboard: %w", dialect.Name(), err)
	}
	return NewSQLStore(db), nil
}

func sqlitePath(dialect database.Dialect, path string) string {
	if dialect.Name() != constants.BackendSQLite {
		return ""
	}
	return path
}
