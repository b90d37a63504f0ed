// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/example/guardgen/internal/core/effects"
	"github.com/example/guardgen/internal/core/guard"
	"github.com/example/guardgen/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against a project tree
// and an optional run ledger.
type DefaultEffectExecutor struct {
	fs     secondary.ProjectFS
	ledger secondary.LedgerRepository // nil disables persistence
	logger *logrus.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(fs secondary.ProjectFS, ledger secondary.LedgerRepository, logger *logrus.Logger) *DefaultEffectExecutor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DefaultEffectExecutor{fs: fs, ledger: ledger, logger: logger}
}

// Execute processes a slice of effects, executing each in sequence.
// It stops at the first failure; effects already executed stay applied.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.FileEffect:
		return e.executeFile(ctx, typed)
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeFile(ctx context.Context, eff effects.FileEffect) error {
	var err error
	switch eff.Operation {
	case effects.FileMkdir:
		err = e.fs.MkdirAll(ctx, eff.Path)
	case effects.FileWrite:
		err = e.fs.WriteFile(ctx, eff.Path, eff.Content, os.FileMode(eff.Mode))
	default:
		return fmt.Errorf("unknown file operation: %s", eff.Operation)
	}
	if err != nil {
		return &guard.IOError{Op: eff.Operation, Path: eff.Path, Err: err}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	entry := e.logger.WithFields(logrus.Fields(eff.Fields))
	switch eff.Level {
	case effects.LevelDebug:
		entry.Debug(eff.Message)
	case effects.LevelWarn:
		entry.Warn(eff.Message)
	default:
		entry.Info(eff.Message)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case "guard_record":
		return e.executeGuardRecordOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeGuardRecordOp(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Operation {
	case "create":
		rec, ok := eff.Data.(guard.Record)
		if !ok {
			return fmt.Errorf("invalid guard record data type: %T", eff.Data)
		}
		if e.ledger == nil || rec.RunID == "" {
			return nil
		}
		return e.ledger.RecordGuard(ctx, recordToGuardRecord(rec))
	default:
		return fmt.Errorf("unknown guard_record operation: %s", eff.Operation)
	}
}

func recordToGuardRecord(rec guard.Record) *secondary.GuardRecord {
	return &secondary.GuardRecord{
		RunID:    rec.RunID,
		Guard:    rec.Guard,
		Status:   rec.Status,
		Files:    rec.Files,
		Warnings: rec.Warnings,
		Error:    rec.Error,
	}
}
