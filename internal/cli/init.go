package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/guardgen/internal/adapters/filesystem"
	"github.com/example/guardgen/internal/config"
	"github.com/example/guardgen/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the project config and initialize the run ledger",
		Long: `Write .guardgen/config.yaml with the default layout and namespaces, and
create the run ledger it points at. An existing config is kept unless
--force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ok := color.New(color.FgGreen).Sprint("✓")

			project, err := filesystem.NewProjectAdapter(projectDir)
			if err != nil {
				return classifyError(err)
			}
			root := project.Root()

			cfg := config.Default()
			if config.Exists(root) && !force {
				cfg, err = config.Load(root)
				if err != nil {
					return classifyError(err)
				}
				fmt.Fprintf(out, "%s Config already exists at %s\n", ok, config.Path(root))
			} else {
				if err := config.Save(root, cfg); err != nil {
					return classifyError(err)
				}
				fmt.Fprintf(out, "%s Config written to %s\n", ok, config.Path(root))
			}

			if cfg.Ledger {
				path := cfg.ResolveLedgerPath(root)
				conn, err := db.Open(path)
				if err != nil {
					return classifyError(fmt.Errorf("failed to initialize ledger: %w", err))
				}
				conn.Close()
				fmt.Fprintf(out, "%s Ledger initialized at %s\n", ok, path)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  guardgen doctor")
			fmt.Fprintln(out, "  guardgen create")

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config with the defaults")

	return cmd
}
