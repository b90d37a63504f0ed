package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/guardgen/internal/core/guard"
	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/ports/secondary"
	"github.com/example/guardgen/internal/scaffold"
)

// Run statuses recorded in the ledger.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunPartial   = "partial"
	RunFailed    = "failed"
)

// OverlayFunc wraps a project tree so writes stay in memory.
type OverlayFunc func(base secondary.ProjectFS) secondary.ProjectFS

// GuardServiceConfig carries the project settings the service runs with.
type GuardServiceConfig struct {
	Layout           guard.Layout
	Namespaces       scaffold.Namespaces
	VendorDir        string
	FrameworkVersion string // configured version, used when no override is given
}

// GuardServiceImpl implements the GuardService interface.
type GuardServiceImpl struct {
	fs      secondary.ProjectFS
	ledger  secondary.LedgerRepository // nil when the ledger is disabled
	overlay OverlayFunc
	planner *guard.Planner
	cfg     GuardServiceConfig
	logger  *logrus.Logger

	now   func() time.Time
	newID func() string
}

// NewGuardService creates a new GuardService with injected dependencies.
func NewGuardService(
	fs secondary.ProjectFS,
	ledger secondary.LedgerRepository,
	overlay OverlayFunc,
	cfg GuardServiceConfig,
	logger *logrus.Logger,
) *GuardServiceImpl {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GuardServiceImpl{
		fs:      fs,
		ledger:  ledger,
		overlay: overlay,
		planner: guard.NewPlanner(cfg.Layout, cfg.Namespaces),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// ValidateGuardName checks a name against the rules and the names already
// entered this session.
func (s *GuardServiceImpl) ValidateGuardName(name string, entered []string) error {
	if _, err := scaffold.Derive(name); err != nil {
		return err
	}

	result := guard.CanCreateGuard(guard.CreateGuardContext{Name: name, Entered: entered})
	if !result.Allowed {
		return fmt.Errorf("%w: %s", scaffold.ErrInvalidName, result.Reason)
	}
	return nil
}

// DetectFramework resolves the framework version and dialect.
func (s *GuardServiceImpl) DetectFramework(ctx context.Context, override string) (*primary.Framework, error) {
	fw, _, err := s.detector(s.fs).detect(ctx, override)
	return fw, err
}

func (s *GuardServiceImpl) detector(fs secondary.ProjectFS) frameworkDetector {
	return frameworkDetector{
		fs:        fs,
		vendorDir: s.cfg.VendorDir,
		configVer: s.cfg.FrameworkVersion,
		layout:    s.cfg.Layout,
	}
}

// CreateGuards generates and wires every requested guard, in order.
func (s *GuardServiceImpl) CreateGuards(ctx context.Context, req primary.CreateGuardsRequest) (*primary.CreateGuardsResponse, error) {
	if len(req.Names) == 0 {
		return nil, fmt.Errorf("%w: no guard names given", scaffold.ErrInvalidName)
	}
	for i, name := range req.Names {
		if err := s.ValidateGuardName(name, req.Names[:i]); err != nil {
			return nil, err
		}
	}

	// Version problems stop the run before anything is written.
	fw, dialect, err := s.detector(s.fs).detect(ctx, req.FrameworkVersion)
	if err != nil {
		return nil, err
	}

	fs := s.fs
	ledger := s.ledger
	if req.DryRun {
		if s.overlay == nil {
			return nil, errors.New("dry run is not available")
		}
		fs = s.overlay(s.fs)
		ledger = nil
	}

	resp := &primary.CreateGuardsResponse{Framework: fw, DryRun: req.DryRun}
	if ledger != nil {
		resp.RunID = s.newID()
		run := &secondary.RunRecord{
			ID:               resp.RunID,
			ProjectRoot:      s.fs.Root(),
			FrameworkVersion: fw.Version,
			Dialect:          fw.Dialect,
			DryRun:           req.DryRun,
			Status:           RunRunning,
		}
		if err := ledger.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	executor := NewEffectExecutor(fs, ledger, s.logger)
	s.logger.WithFields(logrus.Fields{
		"run":     resp.RunID,
		"version": fw.Version,
		"source":  fw.Source,
		"dialect": fw.Dialect,
		"dry_run": req.DryRun,
	}).Debug("starting run")

	for _, name := range req.Names {
		outcome := s.createGuard(ctx, fs, executor, resp.RunID, name, dialect)
		if outcome.Err != nil {
			s.logger.WithFields(logrus.Fields{"guard": outcome.Key}).WithError(outcome.Err).Debug("guard failed")
			if ledger != nil {
				s.recordFailure(ctx, ledger, resp.RunID, outcome)
			}
		}
		resp.Guards = append(resp.Guards, outcome)
	}

	if ledger != nil {
		if err := ledger.FinishRun(ctx, resp.RunID, runStatus(resp)); err != nil {
			s.logger.WithError(err).Warn("failed to finish run in ledger")
		}
	}

	return resp, nil
}

// createGuard reads the current documents, plans one guard and executes
// the plan. Every document is re-read so earlier guards are reflected.
func (s *GuardServiceImpl) createGuard(
	ctx context.Context,
	fs secondary.ProjectFS,
	executor EffectExecutor,
	runID, name string,
	dialect patch.Dialect,
) *primary.GuardOutcome {
	outcome := &primary.GuardOutcome{Name: name}

	ids, err := scaffold.Derive(name)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Key = ids.LowerKey

	layout := s.planner.Layout()
	authPath := layout.AuthConfigPath()
	regPath := layout.RegistrationPath(dialect.Kind())

	auth, err := fs.ReadFile(ctx, authPath)
	if err != nil {
		outcome.Err = &guard.IOError{Op: "read", Path: authPath, Err: err}
		return outcome
	}
	reg, err := fs.ReadFile(ctx, regPath)
	if err != nil {
		outcome.Err = &guard.IOError{Op: "read", Path: regPath, Err: err}
		return outcome
	}
	migrations, err := fs.ListDir(ctx, layout.MigrationsDir())
	if err != nil {
		outcome.Err = &guard.IOError{Op: "read", Path: layout.MigrationsDir(), Err: err}
		return outcome
	}

	plan, err := s.planner.Plan(guard.PlanInput{
		RunID:              runID,
		Identifiers:        ids,
		Timestamp:          s.now(),
		Dialect:            dialect,
		AuthConfig:         string(auth),
		Registration:       string(reg),
		ExistingMigrations: migrations,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}

	for _, f := range plan.Files {
		outcome.Files = append(outcome.Files, primary.GeneratedFile{Kind: f.Kind.String(), Path: f.Path})
	}
	for _, pc := range plan.Patches {
		outcome.Patches = append(outcome.Patches, primary.DocumentPatch{Path: pc.Path, Region: pc.Region, Outcome: pc.Outcome.String()})
	}
	outcome.Warnings = plan.Warnings
	outcome.NextSteps = plan.NextSteps

	if err := executor.Execute(ctx, plan.Effects); err != nil {
		outcome.Err = err
	}
	return outcome
}

func (s *GuardServiceImpl) recordFailure(ctx context.Context, ledger secondary.LedgerRepository, runID string, outcome *primary.GuardOutcome) {
	key := outcome.Key
	if key == "" {
		key = outcome.Name
	}
	rec := &secondary.GuardRecord{
		RunID:    runID,
		Guard:    key,
		Status:   guard.StatusFailed,
		Warnings: outcome.Warnings,
		Error:    outcome.Err.Error(),
	}
	if err := ledger.RecordGuard(ctx, rec); err != nil {
		s.logger.WithError(err).Warn("failed to record guard failure in ledger")
	}
}

func runStatus(resp *primary.CreateGuardsResponse) string {
	failed := resp.Failed()
	switch {
	case failed == 0:
		return RunCompleted
	case failed == len(resp.Guards):
		return RunFailed
	default:
		return RunPartial
	}
}

// Ensure GuardServiceImpl implements the interface.
var _ primary.GuardService = (*GuardServiceImpl)(nil)
