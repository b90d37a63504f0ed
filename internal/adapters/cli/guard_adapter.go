// Package cli contains thin adapters that translate CLI operations into
// primary port calls and render the results.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/guardgen/internal/ports/primary"
)

// GuardAdapter is a thin adapter that translates CLI operations to GuardService calls.
// It depends only on the GuardService interface, enabling easy testing with mocks.
type GuardAdapter struct {
	service primary.GuardService
	out     io.Writer
}

// NewGuardAdapter creates a new GuardAdapter with the given service.
func NewGuardAdapter(service primary.GuardService, out io.Writer) *GuardAdapter {
	return &GuardAdapter{
		service: service,
		out:     out,
	}
}

// Validate checks a prompted name against the names entered so far.
func (a *GuardAdapter) Validate(name string, entered []string) error {
	return a.service.ValidateGuardName(name, entered)
}

// Framework resolves and prints the framework the run will target.
func (a *GuardAdapter) Framework(ctx context.Context, override string) (*primary.Framework, error) {
	fw, err := a.service.DetectFramework(ctx, override)
	if err != nil {
		return nil, err
	}
	a.printFramework(fw)
	return fw, nil
}

// Create runs the guards and prints one block per guard plus a summary.
func (a *GuardAdapter) Create(ctx context.Context, req primary.CreateGuardsRequest) (*primary.CreateGuardsResponse, error) {
	resp, err := a.service.CreateGuards(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.DryRun {
		fmt.Fprintln(a.out, color.New(color.FgYellow).Sprint("Dry run: nothing was written."))
	}

	for _, g := range resp.Guards {
		fmt.Fprintln(a.out)
		a.printGuard(g)
	}

	fmt.Fprintln(a.out)
	failed := resp.Failed()
	summary := fmt.Sprintf("%d guard(s): %d created, %d failed", len(resp.Guards), len(resp.Guards)-failed, failed)
	if failed > 0 {
		fmt.Fprintln(a.out, color.New(color.FgRed).Sprint(summary))
		for _, g := range resp.Guards {
			if g.Err != nil {
				fmt.Fprintf(a.out, "  - %s: %v\n", g.Name, g.Err)
			}
		}
	} else {
		fmt.Fprintln(a.out, summary)
	}
	if resp.RunID != "" {
		fmt.Fprintf(a.out, "Run: %s\n", resp.RunID)
	}

	return resp, nil
}

func (a *GuardAdapter) printFramework(fw *primary.Framework) {
	fmt.Fprintf(a.out, "Framework %s (from %s): %s dialect, registering in %s\n",
		fw.Version, fw.Source, fw.Dialect, fw.RegistrationPath)
}

func (a *GuardAdapter) printGuard(g *primary.GuardOutcome) {
	label := g.Key
	if label == "" {
		label = g.Name
	}
	if g.Err != nil {
		fmt.Fprintf(a.out, "%s %s: %v\n", color.New(color.FgRed).Sprint("✗"), label, g.Err)
	} else {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), label)
	}

	if len(g.Files) > 0 || len(g.Patches) > 0 {
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, f := range g.Files {
			fmt.Fprintf(w, "  %s\t%s\n", f.Kind, f.Path)
		}
		for _, p := range g.Patches {
			fmt.Fprintf(w, "  %s\t%s %s\n", p.Outcome, p.Path, p.Region)
		}
		w.Flush()
	}

	for _, warning := range g.Warnings {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgYellow).Sprint("!"), warning)
	}

	if g.Err == nil && len(g.NextSteps) > 0 {
		fmt.Fprintln(a.out, "  Next steps:")
		for _, step := range g.NextSteps {
			fmt.Fprintf(a.out, "    %s\n", step)
		}
	}
}
