package database

import (
	"testing"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		backend  string
		wantName string
		wantErr  bool
	}{
		{"sqlite", "sqlite", false},
		{"SQLite3", "sqlite", false},
		{"postgres", "postgres", false},
		{"postgresql", "postgres", false},
		{"mysql", "mysql", false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			d, err := DialectFor(tt.backend)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DialectFor(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if err == nil && d.Name() != tt.wantName {
				t.Errorf("DialectFor(%q).Name() = %v, want %v", tt.backend, d.Name(), tt.wantName)
			}
		})
	}
}

func TestDialectDriverNames(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{NewSQLiteDialect(), "sqlite"},
		{NewPostgresDialect(), "postgres"},
		{NewMySQLDialect(), "mysql"},
	}
	for _, tt := range tests {
		if got := tt.dialect.DriverName(); got != tt.want {
			t.Errorf("DriverName() = %v, want %v", got, tt.want)
		}
	}
}

func TestRewriteQuery(t *testing.T) {
	query := "INSERT INTO scores (name, score) VALUES (?, ?)"

	t.Run("postgres numbers placeholders", func(t *testing.T) {
		got := NewPostgresDialect().RewriteQuery(query)
		want := "INSERT INTO scores (name, score) VALUES ($1, $2)"
		if got != want {
			t.Errorf("RewriteQuery() = %v, want %v", got, want)
		}
	})

	t.Run("sqlite and mysql leave placeholders", func(t *testing.T) {
		for _, d := range []Dialect{NewSQLiteDialect(), NewMySQLDialect()} {
			if got := d.RewriteQuery(query); got != query {
				t.Errorf("%s RewriteQuery() = %v, want unchanged", d.Name(), got)
			}
		}
	})
}

func TestDSN(t *testing.T) {
	cfg := DialectConfig{Path: "/tmp/scores.db", URL: "postgres://u@h/db"}
	if got := NewSQLiteDialect().DSN(cfg); got != cfg.Path {
		t.Errorf("sqlite DSN = %v, want %v", got, cfg.Path)
	}
	if got := NewPostgresDialect().DSN(cfg); got != cfg.URL {
		t.Errorf("postgres DSN = %v, want %v", got, cfg.URL)
	}
}
