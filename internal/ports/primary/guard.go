package primary

import "context"

// GuardService defines the primary port for guard scaffolding.
type GuardService interface {
	// CreateGuards generates and wires every requested guard, in order.
	// Per-guard failures are reported in the response; the returned error
	// is reserved for failures that stop the run before any guard starts.
	CreateGuards(ctx context.Context, req CreateGuardsRequest) (*CreateGuardsResponse, error)

	// ValidateGuardName checks a name against the rules and the names
	// already entered this session.
	ValidateGuardName(name string, entered []string) error

	// DetectFramework resolves the framework version and dialect.
	DetectFramework(ctx context.Context, override string) (*Framework, error)
}

// CreateGuardsRequest contains parameters for creating guards.
type CreateGuardsRequest struct {
	Names            []string
	FrameworkVersion string // overrides detection when set
	DryRun           bool
}

// CreateGuardsResponse contains the result of a run.
type CreateGuardsResponse struct {
	RunID     string
	Framework *Framework
	DryRun    bool
	Guards    []*GuardOutcome
}

// Failed returns the number of guards that did not complete.
func (r *CreateGuardsResponse) Failed() int {
	n := 0
	for _, g := range r.Guards {
		if g.Err != nil {
			n++
		}
	}
	return n
}

// Framework describes the detected host framework.
type Framework struct {
	Version          string // as reported, e.g. "11.2.3"
	Source           string // "flag", "config", "vendor", "composer.lock"
	Dialect          string // "kernel" or "bootstrap"
	RegistrationPath string
}

// GuardOutcome describes what happened to one guard.
type GuardOutcome struct {
	Name      string
	Key       string
	Files     []GeneratedFile
	Patches   []DocumentPatch
	Warnings  []string
	NextSteps []string
	Err       error
}

// GeneratedFile represents a generated file at the port boundary.
type GeneratedFile struct {
	Kind string
	Path string
}

// DocumentPatch represents one region edit at the port boundary.
type DocumentPatch struct {
	Path    string
	Region  string
	Outcome string // "inserted", "replaced", "unchanged"
}
