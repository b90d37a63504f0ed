package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/guardgen/internal/ports/primary"
)

// HistoryAdapter is a thin adapter that renders ledger queries.
type HistoryAdapter struct {
	service primary.HistoryService
	out     io.Writer
}

// NewHistoryAdapter creates a new HistoryAdapter with the given service.
func NewHistoryAdapter(service primary.HistoryService, out io.Writer) *HistoryAdapter {
	return &HistoryAdapter{
		service: service,
		out:     out,
	}
}

// List lists runs, newest first.
func (a *HistoryAdapter) List(ctx context.Context, filters primary.RunFilters) ([]*primary.Run, error) {
	runs, err := a.service.ListRuns(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first guard:")
		fmt.Fprintln(a.out, "  guardgen create --guard admin")
		return runs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tVERSION\tDIALECT\tSTATUS")
	fmt.Fprintln(w, "--\t-------\t-------\t-------\t------")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.StartedAt,
			run.FrameworkVersion,
			run.Dialect,
			run.Status,
		)
	}

	w.Flush()
	return runs, nil
}

// Show displays a run and its guard outcomes.
func (a *HistoryAdapter) Show(ctx context.Context, runID string) (*primary.Run, error) {
	run, err := a.service.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Fprintf(a.out, "\nRun: %s\n", run.ID)
	fmt.Fprintf(a.out, "Project:  %s\n", run.ProjectRoot)
	fmt.Fprintf(a.out, "Version:  %s (%s)\n", run.FrameworkVersion, run.Dialect)
	fmt.Fprintf(a.out, "Status:   %s\n", run.Status)
	fmt.Fprintf(a.out, "Started:  %s\n", run.StartedAt)
	if run.FinishedAt != "" {
		fmt.Fprintf(a.out, "Finished: %s\n", run.FinishedAt)
	}
	fmt.Fprintln(a.out)

	for _, g := range run.Guards {
		if g.Error != "" {
			fmt.Fprintf(a.out, "%s %s: %s\n", color.New(color.FgRed).Sprint("✗"), g.Guard, g.Error)
		} else {
			fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), g.Guard)
		}
		for _, f := range g.Files {
			fmt.Fprintf(a.out, "  %s\n", f)
		}
		for _, warning := range g.Warnings {
			fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgYellow).Sprint("!"), warning)
		}
	}

	return run, nil
}
