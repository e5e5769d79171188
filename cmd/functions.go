package cmd

import (
	"github.com/spf13/cobra"

	m "mutator.dev/pkg/mutator/internal/model"
)

// functionsCmd represents the functions command.
var functionsCmd = newFunctionsCmd()

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions <source-file>",
		Short: "List functions eligible for --function",
		Long:  "List the function names in a source file that `run --function` accepts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Functions(cmd.Context(), m.Path(args[0]))
		},
	}
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}
