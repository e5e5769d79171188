package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutator.dev/pkg/mutator/internal/controller"
	"mutator.dev/pkg/mutator/internal/domain"
	m "mutator.dev/pkg/mutator/internal/model"
)

var runTestFlag string
var runTestCmdFlag string
var runFunctionFlag string
var runTimeoutMultFlag float64
var runSessionFlag string
var runInPlaceFlag bool
var runJSONFlag bool
var runQuietFlag bool

const runLongDescription = `Run mutation testing for a single source file against its test file.

The language is detected from the file extension (.py, .rs, .js, .jsx,
.mjs, .ts, .tsx). Mutants are generated from the source, spliced in one
at a time and tested with the configured test command; a passing suite
means the mutant survived.

Exit codes: 0 all mutants killed, 1 survivors remain, 2 bad usage,
3 broken environment or failing baseline.`

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <source-file>",
		Short: "Run mutation testing on a source file",
		Long:  runLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runQuietFlag {
				switch v := ui.(type) {
				case *controller.SimpleUI:
					v.Quiet = true
				case *controller.ProgressUI:
					v.Quiet = true
				}
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				Source:      m.Path(args[0]),
				Test:        m.Path(runTestFlag),
				TestCmd:     viper.GetString(testCmdConfigKey),
				Function:    runFunctionFlag,
				TimeoutMult: viper.GetFloat64(timeoutMultConfigKey),
				Session:     runSessionFlag,
				InPlace:     runInPlaceFlag,
				JSON:        runJSONFlag,
				Reports:     m.Path(viper.GetString(outputFlagName)),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runTestFlag, "test", "t", "", "test file to run against each mutant")
	cmd.Flags().StringVarP(&runTestCmdFlag, testCmdFlagName, "c", viper.GetString(testCmdConfigKey), "test command (e.g. pytest, \"npm test\", \"cargo test\")")
	bindFlagToConfig(cmd.Flags().Lookup(testCmdFlagName), testCmdConfigKey)
	cmd.Flags().StringVarP(&runFunctionFlag, "function", "f", "", "only mutate the named function")
	cmd.Flags().Float64Var(&runTimeoutMultFlag, timeoutMultFlagName, viper.GetFloat64(timeoutMultConfigKey), "per-mutant timeout as a multiple of the baseline duration")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutMultFlagName), timeoutMultConfigKey)
	cmd.Flags().StringVar(&runSessionFlag, "session", "", "session identifier for reports (generated when empty)")
	cmd.Flags().BoolVar(&runInPlaceFlag, "in-place", false, "mutate the real source file under a backup instead of a workspace copy")
	cmd.Flags().BoolVar(&runJSONFlag, "json", false, "print the run result as JSON")
	cmd.Flags().BoolVarP(&runQuietFlag, "quiet", "q", false, "no output, report the result through the exit code only")
}
