// Package database wraps database/sql with per-driver dialects so the
// leaderboard can live in SQLite, PostgreSQL or MySQL.
package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect hides the differences between the supported drivers.
type Dialect interface {
	// Name is the backend name used in configuration.
	Name() string

	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN returns the data source name for the connection.
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders when the driver needs another syntax.
	RewriteQuery(query string) string

	// ConfigureConnection applies pool settings and session pragmas.
	ConfigureConnection(db *sql.DB) error

	// CreateScoresTableQuery returns the DDL for the leaderboard table.
	CreateScoresTableQuery() string
}

type DialectConfig struct {
	// SQLite
	Path string

	// PostgreSQL/MySQL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
