package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/wire"
)

// DoctorCmd returns the doctor command for project validation
func DoctorCmd() *cobra.Command {
	var (
		quiet            bool
		frameworkVersion string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the project can be patched",
		Long: `Health check for the host project.

Validates:
- composer.json is present
- The framework version can be detected and a dialect chosen
- config/auth.php parses and has 'guards' and 'providers' regions
- The middleware registration document accepts a new alias
- The migrations directory exists

Nothing is written.

Examples:
  guardgen doctor              # Run full health check
  guardgen doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.DoctorAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return classifyError(err)
			}

			healthy, err := adapter.Check(cmd.Context(), primary.DoctorRequest{FrameworkVersion: frameworkVersion}, quiet)
			if err != nil {
				return classifyError(err)
			}
			if !healthy {
				return CommandError{Message: "project validation failed", ExitCode: ExitFailure}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")
	cmd.Flags().StringVar(&frameworkVersion, "framework-version", "", "Framework version to check against instead of detecting it")

	return cmd
}
