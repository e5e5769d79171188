package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"mutator.dev/pkg/mutator/internal/adapter"
	m "mutator.dev/pkg/mutator/internal/model"
)

// timeoutOverhead pads the per-mutant deadline beyond the scaled baseline so
// short suites are not penalized by process startup cost.
const timeoutOverhead = 2 * time.Second

// unviableSignatures in a failing run's stderr mean the mutation broke the
// build or import, not that the tests caught it.
var unviableSignatures = []string{
	"SyntaxError",
	"IndentationError",
	"ImportError",
	"ModuleNotFoundError",
}

// BaselineError reports that the unmutated test suite failed, which makes
// every later classification meaningless.
type BaselineError struct {
	Output string
}

func (e *BaselineError) Error() string {
	return "tests fail before mutation"
}

// BaselineArgs returns the test runner flags for the calibration run.
func BaselineArgs(language m.Language) []string {
	switch language {
	case m.LangPython:
		return []string{"-x", "-q", "--tb=short", "--no-header"}
	case m.LangRust:
		return []string{"--", "--test-threads=1"}
	default:
		return []string{"--bail"}
	}
}

// MutantArgs returns the test runner flags for per-mutant runs. Python drops
// tracebacks and the cache provider since only the exit code matters.
func MutantArgs(language m.Language) []string {
	switch language {
	case m.LangPython:
		return []string{"-x", "-q", "--tb=no", "--no-header", "-p", "no:cacheprovider"}
	case m.LangRust:
		return []string{"--", "--test-threads=1"}
	default:
		return []string{"--bail"}
	}
}

// Plan describes one executor run against a single source file.
type Plan struct {
	// SourceFile is the file mutations are spliced into, normally the
	// workspace copy.
	SourceFile m.Path

	// TestFile is handed to the test command for runners that take one.
	TestFile m.Path

	// WorkDir is the child process working directory.
	WorkDir m.Path

	// TestCmd is the resolved test command, possibly with embedded args.
	TestCmd string

	Language    m.Language
	TimeoutMult float64
}

// Executor drives the per-mutant state machine: splice, run, classify,
// restore. Strictly sequential; each mutant owns the source file alone.
type Executor struct {
	fs     adapter.SourceFSAdapter
	runner adapter.TestRunnerAdapter
}

// NewExecutor constructs an Executor from its infrastructure adapters.
func NewExecutor(fs adapter.SourceFSAdapter, runner adapter.TestRunnerAdapter) *Executor {
	return &Executor{fs: fs, runner: runner}
}

// Baseline runs the unmutated suite once and returns its duration. A failing
// suite surfaces as *BaselineError.
func (e *Executor) Baseline(ctx context.Context, plan Plan) (time.Duration, error) {
	program, leading := splitCommand(plan.TestCmd)

	outcome, err := e.runner.Run(ctx, adapter.RunSpec{
		Command:         program,
		LeadingArgs:     leading,
		TestFile:        plan.TestFile,
		IncludeTestFile: takesTestFile(plan.TestCmd),
		Args:            BaselineArgs(plan.Language),
		Dir:             plan.WorkDir,
	})
	if err != nil {
		return 0, &BaselineError{Output: fmt.Sprintf("failed to run %s: %v", plan.TestCmd, err)}
	}

	if outcome.ExitCode != 0 {
		return 0, &BaselineError{Output: outcome.Stdout + "\n" + outcome.Stderr}
	}

	slog.Debug("baseline passed", "duration", outcome.Duration, "cmd", plan.TestCmd)

	return outcome.Duration, nil
}

// Run executes every mutation sequentially and classifies each outcome.
// The source file is rewritten to its original content after every mutant
// and again on any exit path. onResult, when non-nil, observes each result
// as it is produced.
func (e *Executor) Run(
	ctx context.Context,
	plan Plan,
	original []byte,
	mutations []m.Mutation,
	baseline time.Duration,
	onResult func(m.MutantResult),
) ([]m.MutantResult, error) {
	timeout := time.Duration(float64(baseline)*plan.TimeoutMult) + timeoutOverhead
	program, leading := splitCommand(plan.TestCmd)
	mutantArgs := MutantArgs(plan.Language)

	defer func() {
		if err := e.fs.WriteFile(plan.SourceFile, original, 0o644); err != nil {
			slog.Error("failed to restore original source", "path", plan.SourceFile, "error", err)
		}
		e.runner.ClearBytecodeCache(plan.SourceFile)
	}()

	results := make([]m.MutantResult, 0, len(mutations))

	for _, mutation := range mutations {
		mutated := ApplyMutation(original, mutation)
		diff := unifiedDiff(original, mutated)

		result := m.MutantResult{Mutation: mutation, Diff: diff}

		if err := e.fs.WriteFile(plan.SourceFile, mutated, 0o644); err != nil {
			// A failed write is this mutant's problem, not the run's.
			slog.Debug("mutant write failed", "line", mutation.Line, "error", err)

			result.Status = m.StatusUnviable
			results = append(results, result)

			if onResult != nil {
				onResult(result)
			}

			continue
		}

		e.runner.ClearBytecodeCache(plan.SourceFile)

		start := time.Now()

		outcome, err := e.runner.Run(ctx, adapter.RunSpec{
			Command:         program,
			LeadingArgs:     leading,
			TestFile:        plan.TestFile,
			IncludeTestFile: takesTestFile(plan.TestCmd),
			Args:            mutantArgs,
			Dir:             plan.WorkDir,
			Timeout:         timeout,
		})

		switch {
		case ctx.Err() != nil:
			return results, ctx.Err()
		case err != nil:
			result.Status = m.StatusUnviable
		case outcome.TimedOut:
			result.Status = m.StatusTimeout
		default:
			result.Status = classify(outcome)
		}

		result.DurationMS = time.Since(start).Milliseconds()
		results = append(results, result)

		if onResult != nil {
			onResult(result)
		}

		if err := e.fs.WriteFile(plan.SourceFile, original, 0o644); err != nil {
			return results, fmt.Errorf("restore original source %s: %w", plan.SourceFile, err)
		}
		e.runner.ClearBytecodeCache(plan.SourceFile)
	}

	return results, nil
}

// ApplyMutation splices the replacement into the original buffer. Each call
// starts from the pristine bytes, never from a previous mutant.
func ApplyMutation(original []byte, mutation m.Mutation) []byte {
	result := make([]byte, 0, len(original)+len(mutation.Replacement))
	result = append(result, original[:mutation.StartByte]...)
	result = append(result, mutation.Replacement...)
	result = append(result, original[mutation.EndByte:]...)

	return result
}

func classify(outcome adapter.RunOutcome) m.MutantStatus {
	if outcome.ExitCode == 0 {
		return m.StatusSurvived
	}

	for _, signature := range unviableSignatures {
		if strings.Contains(outcome.Stderr, signature) {
			return m.StatusUnviable
		}
	}

	return m.StatusKilled
}

// splitCommand separates a test command string into program and embedded
// leading arguments, e.g. "npm test" or "cargo test".
func splitCommand(testCmd string) (string, []string) {
	parts := strings.Fields(testCmd)
	if len(parts) == 0 {
		return testCmd, nil
	}

	return parts[0], parts[1:]
}

// takesTestFile reports whether the test file path is passed as an argument.
// Cargo locates tests through the manifest instead.
func takesTestFile(testCmd string) bool {
	return !strings.Contains(testCmd, "cargo")
}

// unifiedDiff renders only the changed lines between the two buffers.
func unifiedDiff(original, mutated []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A: difflib.SplitLines(string(original)),
		B: difflib.SplitLines(string(mutated)),
	})
	if err != nil {
		return ""
	}

	var out strings.Builder

	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}

		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "+") {
			out.WriteString(line[:1] + " " + line[1:])
		}
	}

	return out.String()
}
