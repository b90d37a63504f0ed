// Package cli implements the guardgen commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/guardgen/internal/version"
	"github.com/example/guardgen/internal/wire"
)

var (
	projectDir string
	verbose    bool
)

// NewRootCmd builds the guardgen command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guardgen",
		Short:   "Scaffold multi-guard authentication for Laravel projects",
		Version: version.String(),
		Long: `guardgen generates the model, migration, middleware and controller for
each authentication guard you name, then wires the guards into
config/auth.php and the middleware registration of the project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			noLedger := false
			if f := cmd.Flags().Lookup("dry-run"); f != nil {
				noLedger = f.Value.String() == "true"
			}
			wire.Configure(wire.Options{
				ProjectRoot: projectDir,
				Verbose:     verbose,
				NoLedger:    noLedger,
				LogOutput:   cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", "", "Project root (default: current directory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging output")
	cmd.SetFlagErrorFunc(flagError)

	// Add subcommands
	cmd.AddCommand(InitCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(DoctorCmd())
	cmd.AddCommand(HistoryCmd())

	return cmd
}

// flagError reports flag parsing failures as usage errors.
func flagError(cmd *cobra.Command, err error) error {
	return CommandError{Cause: err, Suggestion: "run '" + cmd.CommandPath() + " --help' for usage", ExitCode: ExitUsage}
}
