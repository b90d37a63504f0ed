package primary

import "context"

// HistoryService defines the primary port for run ledger queries.
type HistoryService interface {
	// ListRuns retrieves runs matching the given filters, newest first.
	ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error)

	// GetRun retrieves a single run with its guard outcomes.
	GetRun(ctx context.Context, runID string) (*Run, error)
}

// Run represents a ledger run at the port boundary.
type Run struct {
	ID               string
	ProjectRoot      string
	FrameworkVersion string
	Dialect          string
	DryRun           bool
	Status           string
	StartedAt        string
	FinishedAt       string
	Guards           []*GuardEntry
}

// GuardEntry represents a ledger guard outcome at the port boundary.
type GuardEntry struct {
	Guard     string
	Status    string
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
