package db

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestOpen_FreshInstallMarksMigrationsApplied(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	v, err := SchemaVersion(conn)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != len(migrations) {
		t.Errorf("schema version = %d, want %d", v, len(migrations))
	}

	for _, table := range []string{"runs", "guard_records"} {
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestOpen_InMemory(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", got)
	}

	// Every statement must see the schema InitSchema created.
	for i := 0; i < 3; i++ {
		if _, err := conn.Exec(
			"INSERT INTO runs (id, project_root, framework_version, dialect) VALUES (?, '/srv/app', '11.2.3', 'bootstrap')",
			fmt.Sprintf("run-%d", i),
		); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}
	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("runs = %d, want 3", n)
	}
}

func TestOpen_ReopenIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := first.Exec("INSERT INTO runs (id, project_root, framework_version, dialect) VALUES ('run-1', '/srv/app', '11.0.0', 'bootstrap')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected run to survive reopen, got %d rows", n)
	}
}

func TestRunMigrations_UpgradesEmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	conn, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Simulate a ledger created before the guard index existed.
	if _, err := conn.Exec("DROP INDEX idx_guard_records_guard"); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec("DELETE FROM schema_version WHERE version = 2"); err != nil {
		t.Fatal(err)
	}

	if err := RunMigrations(conn); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_guard_records_guard'").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Error("expected migration 2 to recreate the guard index")
	}
	if v, _ := SchemaVersion(conn); v != 2 {
		t.Errorf("schema version = %d, want 2", v)
	}
}

func TestGetDBPath_Override(t *testing.T) {
	defer SetPath("")
	SetPath("/tmp/custom/ledger.db")

	got, err := GetDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/custom/ledger.db" {
		t.Errorf("GetDBPath() = %s", got)
	}
}
