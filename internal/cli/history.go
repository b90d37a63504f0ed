package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/guardgen/internal/ports/primary"
	"github.com/example/guardgen/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded create runs",
		Long: `List the runs recorded in the ledger, newest first.

Examples:
  guardgen history                 # runs for this project
  guardgen history --all           # runs for every project in the ledger
  guardgen history show <run-id>   # per-guard outcomes of one run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.HistoryAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return classifyError(err)
			}

			filters := primary.RunFilters{Limit: limit}
			if !all {
				root, err := wire.ProjectRoot()
				if err != nil {
					return classifyError(err)
				}
				filters.ProjectRoot = root
			}

			_, err = adapter.List(cmd.Context(), filters)
			return classifyError(err)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&all, "all", false, "Include runs of other projects")

	cmd.AddCommand(historyShowCmd())

	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the guard outcomes of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.HistoryAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return classifyError(err)
			}

			_, err = adapter.Show(cmd.Context(), args[0])
			return classifyError(err)
		},
	}
}
