package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/guardgen/internal/ports/primary"
)

// DoctorAdapter renders project health checks as a table.
type DoctorAdapter struct {
	service primary.DoctorService
	out     io.Writer
}

// NewDoctorAdapter creates a new DoctorAdapter with the given service.
func NewDoctorAdapter(service primary.DoctorService, out io.Writer) *DoctorAdapter {
	return &DoctorAdapter{
		service: service,
		out:     out,
	}
}

// Check runs the checks and reports whether any of them failed.
// Quiet mode prints nothing.
func (a *DoctorAdapter) Check(ctx context.Context, req primary.DoctorRequest, quiet bool) (bool, error) {
	results, err := a.service.Check(ctx, req)
	if err != nil {
		return false, err
	}

	hasErrors := false
	for _, r := range results {
		if r.Status == primary.CheckFail {
			hasErrors = true
			break
		}
	}

	if quiet {
		return !hasErrors, nil
	}

	// Print compact table
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Check              Status")
	fmt.Fprintln(a.out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(a.out, "%-18s %s\n", r.Name, statusIcon(r.Status))
	}
	fmt.Fprintln(a.out)

	// Print details for non-passing checks
	hasDetails := false
	for _, r := range results {
		if r.Status != primary.CheckOK && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(a.out, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(a.out, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(a.out, "\n⚠ Issues found. Fix the failing checks before creating guards.")
	} else {
		fmt.Fprintln(a.out, "All checks passed.")
	}

	return !hasErrors, nil
}

func statusIcon(status string) string {
	switch status {
	case primary.CheckOK:
		return color.New(color.FgGreen).Sprint("✓")
	case primary.CheckWarn:
		return color.New(color.FgYellow).Sprint("⚠")
	default:
		return color.New(color.FgRed).Sprint("✗")
	}
}
