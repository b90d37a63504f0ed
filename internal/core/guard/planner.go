package guard

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/example/guardgen/internal/core/effects"
	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/scaffold"
)

// FileMode is the permission generated and patched files are written with.
const FileMode = 0o644

// Ledger record statuses.
const (
	StatusCreated = "created"
	StatusFailed  = "failed"
)

// Record is the ledger entry written for one guard.
type Record struct {
	RunID    string
	Guard    string
	Status   string
	Files    []string
	Warnings []string
	Error    string
}

// PlanInput contains pre-fetched data for planning one guard.
// All values must be gathered by the caller - no I/O in the planner.
type PlanInput struct {
	RunID       string
	Identifiers scaffold.Identifiers
	Timestamp   time.Time
	Dialect     patch.Dialect

	// Current document contents
	AuthConfig   string
	Registration string

	// File names in the migrations directory
	ExistingMigrations []string
}

// FileChange describes a generated file.
type FileChange struct {
	Kind scaffold.Kind
	Path string
}

// PatchChange describes one region edit in an existing document.
type PatchChange struct {
	Path    string
	Region  string
	Outcome patch.Outcome
}

// Plan describes everything creating one guard will do.
type Plan struct {
	Guard     scaffold.Identifiers
	Files     []FileChange
	Patches   []PatchChange
	Warnings  []string
	NextSteps []string
	Effects   []effects.Effect
}

// Planner turns pre-read project state into effects for one guard.
type Planner struct {
	gen    *scaffold.Generator
	layout Layout
	ns     scaffold.Namespaces
}

// NewPlanner creates a planner for a project layout.
func NewPlanner(layout Layout, ns scaffold.Namespaces) *Planner {
	return &Planner{
		gen:    scaffold.NewGenerator(layout.Layout, ns),
		layout: layout,
		ns:     ns,
	}
}

// Layout returns the project layout the planner targets.
func (p *Planner) Layout() Layout { return p.layout }

// Plan generates the plan for one guard.
// This is a pure function - all input data must be pre-fetched. Documents
// that cannot be parsed fail the whole plan so nothing is written for the
// guard; regions that are missing only produce warnings.
func (p *Planner) Plan(input PlanInput) (*Plan, error) {
	if input.Dialect == nil {
		return nil, errors.New("no middleware registration dialect selected")
	}
	ids := input.Identifiers
	plan := &Plan{Guard: ids}

	opts := scaffold.GuardOptions{Timestamp: input.Timestamp}
	if existing := findMigration(input.ExistingMigrations, scaffold.MigrationSuffix(ids)); existing != "" {
		opts.MigrationPath = filepath.Join(p.layout.MigrationsDir(), existing)
		plan.Effects = append(plan.Effects, effects.LogEffect{Level: effects.LevelInfo, Message: "reusing existing migration", Fields: map[string]any{
			"guard": ids.LowerKey, "path": opts.MigrationPath,
		}})
	}

	generated, err := p.gen.GenerateGuard(ids, opts)
	if err != nil {
		return nil, err
	}
	for _, f := range generated.Files {
		plan.Files = append(plan.Files, FileChange{Kind: f.Kind, Path: f.Path})
		// Controllers live in a directory of their own, named after the guard.
		if f.Kind == scaffold.KindController {
			plan.Effects = append(plan.Effects, effects.FileEffect{Operation: effects.FileMkdir, Path: filepath.Dir(f.Path)})
		}
		plan.Effects = append(plan.Effects,
			effects.FileEffect{Operation: effects.FileWrite, Path: f.Path, Content: []byte(f.Content), Mode: FileMode},
			effects.LogEffect{Level: effects.LevelDebug, Message: "generated file", Fields: map[string]any{
				"guard": ids.LowerKey, "kind": f.Kind.String(), "path": f.Path,
			}},
		)
	}
	plan.NextSteps = generated.NextSteps

	authPath := p.layout.AuthConfigPath()
	authEdits := []struct {
		sel  patch.Selector
		frag patch.Fragment
	}{
		{patch.Key("guards"), GuardEntry(ids)},
		{patch.Key("providers"), ProviderEntry(ids, p.ns)},
	}
	auth := input.AuthConfig
	for _, edit := range authEdits {
		res, err := patch.Upsert(auth, edit.sel, edit.frag)
		if err != nil {
			if errors.Is(err, patch.ErrNotApplicable) {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf("%s: %v", authPath, err))
				continue
			}
			return nil, fmt.Errorf("patch %s: %w", authPath, err)
		}
		auth = res.Text
		plan.Patches = append(plan.Patches, PatchChange{Path: authPath, Region: edit.sel.String(), Outcome: res.Outcome})
	}
	plan.Effects = append(plan.Effects, p.documentEffects(ids, authPath, input.AuthConfig, auth)...)

	regPath := p.layout.RegistrationPath(input.Dialect.Kind())
	res, err := input.Dialect.RegisterAlias(input.Registration, AliasEntry(ids, p.ns))
	switch {
	case err == nil:
		plan.Patches = append(plan.Patches, PatchChange{Path: regPath, Region: "middleware aliases", Outcome: res.Outcome})
		plan.Effects = append(plan.Effects, p.documentEffects(ids, regPath, input.Registration, res.Text)...)
	case errors.Is(err, patch.ErrNotApplicable):
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("%s: %v", regPath, err))
	default:
		return nil, fmt.Errorf("patch %s: %w", regPath, err)
	}

	for _, w := range plan.Warnings {
		plan.Effects = append(plan.Effects, effects.LogEffect{
			Level: effects.LevelWarn, Message: w, Fields: map[string]any{"guard": ids.LowerKey},
		})
	}

	record := Record{
		RunID:    input.RunID,
		Guard:    ids.LowerKey,
		Status:   StatusCreated,
		Files:    plan.Paths(),
		Warnings: plan.Warnings,
	}
	plan.Effects = append(plan.Effects, effects.PersistEffect{Entity: "guard_record", Operation: "create", Data: record})

	return plan, nil
}

// documentEffects writes a patched document only when its text changed.
func (p *Planner) documentEffects(ids scaffold.Identifiers, path, before, after string) []effects.Effect {
	if before == after {
		return []effects.Effect{effects.LogEffect{Level: effects.LevelDebug, Message: "document unchanged", Fields: map[string]any{
			"guard": ids.LowerKey, "path": path,
		}}}
	}
	return []effects.Effect{
		effects.FileEffect{Operation: effects.FileWrite, Path: path, Content: []byte(after), Mode: FileMode},
		effects.LogEffect{Level: effects.LevelDebug, Message: "patched document", Fields: map[string]any{
			"guard": ids.LowerKey, "path": path,
		}},
	}
}

// Paths lists every file the plan writes, generated files first.
func (pl *Plan) Paths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, f := range pl.Files {
		paths = append(paths, f.Path)
		seen[f.Path] = true
	}
	for _, pc := range pl.Patches {
		if pc.Outcome != patch.Unchanged && !seen[pc.Path] {
			paths = append(paths, pc.Path)
			seen[pc.Path] = true
		}
	}
	return paths
}

// findMigration returns the earliest migration file name ending in suffix.
func findMigration(names []string, suffix string) string {
	var matches []string
	for _, name := range names {
		if strings.HasSuffix(name, "_"+suffix) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}
