package app

import (
	"context"
	"fmt"

	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	ledger secondary.LedgerRepository
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(ledger secondary.LedgerRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{ledger: ledger}
}

// ListRuns retrieves runs matching the given filters, newest first.
func (s *HistoryServiceImpl) ListRuns(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	records, err := s.ledger.ListRuns(ctx, secondary.RunFilters{
		ProjectRoot: filters.ProjectRoot,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = s.recordToRun(r)
	}
	return runs, nil
}

// GetRun retrieves a single run with its guard outcomes.
func (s *HistoryServiceImpl) GetRun(ctx context.Context, runID string) (*primary.Run, error) {
	record, err := s.ledger.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	guards, err := s.ledger.ListGuards(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guards: %w", err)
	}

	run := s.recordToRun(record)
	for _, g := range guards {
		run.Guards = append(run.Guards, &primary.GuardEntry{
			Guard:     g.Guard,
			Status:    g.Status,
			Files:     g.Files,
			Warnings:  g.Warnings,
			Error:     g.Error,
			CreatedAt: g.CreatedAt,
		})
	}
	return run, nil
}

// Helper methods

func (s *HistoryServiceImpl) recordToRun(r *secondary.RunRecord) *primary.Run {
	return &primary.Run{
		ID:               r.ID,
		ProjectRoot:      r.ProjectRoot,
		FrameworkVersion: r.FrameworkVersion,
		Dialect:          r.Dialect,
		DryRun:           r.DryRun,
		Status:           r.Status,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
	}
}

// Ensure HistoryServiceImpl implements the interface.
var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
