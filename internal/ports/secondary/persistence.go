// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// LedgerRepository defines the secondary port for the run ledger.
type LedgerRepository interface {
	// CreateRun persists a new run.
	CreateRun(ctx context.Context, run *RunRecord) error

	// FinishRun stamps a run with its final status.
	FinishRun(ctx context.Context, runID, status string) error

	// RecordGuard persists the outcome of one guard.
	RecordGuard(ctx context.Context, rec *GuardRecord) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, runID string) (*RunRecord, error)

	// ListRuns retrieves runs, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*RunRecord, error)

	// ListGuards retrieves the guard outcomes of a run in processing order.
	ListGuards(ctx context.Context, runID string) ([]*GuardRecord, error)
}

// RunRecord represents one invocation of the create command as stored in persistence.
type RunRecord struct {
	ID               string
	ProjectRoot      string
	FrameworkVersion string
	Dialect          string
	DryRun           bool
	Status           string // "running", "completed", "partial", "failed"
	StartedAt        string
	FinishedAt       string
}

// GuardRecord represents one guard's outcome as stored in persistence.
type GuardRecord struct {
	ID        int64
	RunID     string
	Guard     string
	Status    string // "created" or "failed"
	Files     []string
	Warnings  []string
	Error     string
	CreatedAt string
}

// RunFilters contains filter options for querying runs.
type RunFilters struct {
	ProjectRoot string
	Limit       int
}
