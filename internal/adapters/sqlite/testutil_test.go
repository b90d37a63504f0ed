// Package sqlite_test exercises the ledger repository against an in-memory
// database built from db.GetSchemaSQL(), so tests and production share one
// schema definition.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/guardgen/internal/db"
)

// setupTestDB opens an in-memory ledger with foreign keys enforced.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedRun inserts a test run and returns its ID.
func seedRun(t *testing.T, db *sql.DB, id, projectRoot, startedAt string) string {
	t.Helper()
	if id == "" {
		id = "run-001"
	}
	if projectRoot == "" {
		projectRoot = "/srv/app"
	}
	if startedAt == "" {
		startedAt = "2026-10-19 09:30:00"
	}
	_, err := db.Exec(
		"INSERT INTO runs (id, project_root, framework_version, dialect, status, started_at) VALUES (?, ?, '11.2.3', 'bootstrap', 'running', ?)",
		id, projectRoot, startedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
	return id
}
