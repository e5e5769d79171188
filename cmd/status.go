package cmd

import (
	"github.com/spf13/cobra"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the last mutation testing run",
		Long:  "Summarize the last recorded run: score, per-status counts and surviving mutant references.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Status(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
