package primary

import "context"

// DoctorService defines the primary port for project health checks.
type DoctorService interface {
	// Check inspects the project and reports one result per check.
	Check(ctx context.Context, req DoctorRequest) ([]*CheckResult, error)
}

// DoctorRequest contains parameters for a health check.
type DoctorRequest struct {
	FrameworkVersion string // overrides detection when set
}

// Check statuses.
const (
	CheckOK   = "ok"
	CheckWarn = "warn"
	CheckFail = "fail"
)

// CheckResult represents the outcome of a single check.
type CheckResult struct {
	Name    string
	Status  string
	Details string // Only shown if Status != CheckOK
}
