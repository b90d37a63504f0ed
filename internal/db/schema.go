package db

import "database/sql"

// SchemaSQL is the complete ledger schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the ledger schema. Tests load it
// through GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository referencing a column that does not exist here fails with
// "no such column" at development time.
//
// IMPORTANT: Keep this in sync with migrations.
const SchemaSQL = `
-- Runs (one per create invocation)
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	project_root TEXT NOT NULL,
	framework_version TEXT NOT NULL,
	dialect TEXT NOT NULL CHECK (dialect IN ('kernel', 'bootstrap')),
	dry_run INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'running' CHECK (status IN ('running', 'completed', 'partial', 'failed')),
	started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project_root);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Guard outcomes (one per guard per run, in processing order)
CREATE TABLE IF NOT EXISTS guard_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	guard TEXT NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('created', 'failed')),
	files TEXT,
	warnings TEXT,
	error TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_guard_records_run ON guard_records(run_id);
CREATE INDEX IF NOT EXISTS idx_guard_records_guard ON guard_records(guard);
`

// InitSchema creates the ledger schema
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations(db)
	}

	// Fresh install - create the current schema directly and mark every
	// migration as applied so none of them run
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
