package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/wire"
)

// CreateCmd returns the create command
func CreateCmd() *cobra.Command {
	var (
		guards           []string
		frameworkVersion string
		dryRun           bool
		skipConfirm      bool
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"create:guards"},
		Short:   "Scaffold one or more authentication guards",
		Long: `Scaffold authentication guards and wire them into the project.

For every guard this writes a model, a migration, a middleware and a login
controller, adds the guard and its provider to config/auth.php and registers
a '<guard>.auth' middleware alias. Projects on framework 11 or later are
patched in bootstrap/app.php, older ones in app/Http/Kernel.php.

Without --guard the command asks how many guards to create and prompts for
each name. Re-running for an existing guard updates it in place.

Examples:
  guardgen create                                # interactive
  guardgen create --guard admin --guard customer --yes
  guardgen create --guard admin --dry-run        # show what would change
  guardgen create:guards --framework-version 10.48.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			adapter, err := wire.GuardAdapterWithOutput(out)
			if err != nil {
				return classifyError(err)
			}

			if _, err := adapter.Framework(ctx, frameworkVersion); err != nil {
				return classifyError(err)
			}

			p := newPrompter(cmd.InOrStdin(), out)
			names := guards
			if len(names) == 0 {
				count, err := p.askCount()
				if err != nil {
					return CommandError{Cause: err, ExitCode: ExitUsage}
				}
				names, err = p.askNames(count, adapter.Validate)
				if err != nil {
					return CommandError{Cause: err, ExitCode: ExitUsage}
				}
			} else {
				for i, name := range names {
					if err := adapter.Validate(name, names[:i]); err != nil {
						return classifyError(err)
					}
				}
			}

			if !dryRun && !skipConfirm {
				root, err := wire.ProjectRoot()
				if err != nil {
					return classifyError(err)
				}
				if !p.confirm(fmt.Sprintf("Create %d guard(s) in %s?", len(names), root)) {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			resp, err := adapter.Create(ctx, primary.CreateGuardsRequest{
				Names:            names,
				FrameworkVersion: frameworkVersion,
				DryRun:           dryRun,
			})
			if err != nil {
				return classifyError(err)
			}

			if failed := resp.Failed(); failed > 0 {
				return CommandError{
					Message:  fmt.Sprintf("%d of %d guard(s) failed", failed, len(resp.Guards)),
					ExitCode: ExitPartial,
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&guards, "guard", "g", nil, "Guard name (repeatable, skips the prompts)")
	cmd.Flags().StringVar(&frameworkVersion, "framework-version", "", "Framework version to target instead of detecting it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing anything")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
