// Package cmd provides the root command and CLI setup for mutator.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mutator.dev/pkg/mutator/internal/adapter"
	"mutator.dev/pkg/mutator/internal/controller"
	"mutator.dev/pkg/mutator/internal/domain"
)

var fsAdapter adapter.SourceFSAdapter
var runnerAdapter adapter.TestRunnerAdapter
var grammarAdapter adapter.GrammarAdapter
var reportStore adapter.ReportStore
var backupKeeper adapter.BackupKeeper
var ui controller.UI
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	runnerAdapter = adapter.NewLocalTestRunnerAdapter()
	grammarAdapter = adapter.NewTreeSitterAdapter()
	reportStore = adapter.NewLocalReportStore()
	backupKeeper = adapter.NewLocalBackupKeeper()
	workflow = domain.NewWorkflow(
		fsAdapter,
		runnerAdapter,
		grammarAdapter,
		reportStore,
		backupKeeper,
		ui,
	)
}

const rootLongDescription = `Mutator is a mutation testing tool for Python, Rust and JavaScript that
helps you assess the quality of your test suite by introducing small
changes (mutations) to your code and verifying that your tests catch them.

Each mutant is tested in an isolated copy of the project, so your working
tree is never touched unless you ask for --in-place.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutator",
		Short: "Mutation testing for Python, Rust and JavaScript",
		Long:  rootLongDescription,
		// Errors carry exit codes and are printed by Execute.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", viper.GetString(logFilenameKey), "path of the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("log-file"), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute runs the root command and translates command errors into process
// exit codes: 0 clean, 1 surviving mutants, 2 usage, 3 environment.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var coded *domain.CodedError
	if errors.As(err, &coded) {
		if !coded.Silent {
			ui.PrintError(err.Error())
		}

		os.Exit(coded.Code)
	}

	// Cobra reports flag and argument errors itself.
	os.Exit(domain.ExitUsage)
}
