package cmd

import (
	"github.com/spf13/cobra"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show a surviving mutant from the last run",
		Long: `Show the full detail of a surviving mutant by its reference (e.g. m1 or
@m1) as printed in the run report: location, operator, diff and the
surrounding source lines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Show(cmd.Context(), args[0])
		},
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
