package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"mutator.dev/pkg/mutator/internal/adapter"
	"mutator.dev/pkg/mutator/internal/controller"
	m "mutator.dev/pkg/mutator/internal/model"
)

// Process exit codes. Survivors are distinguished from usage and environment
// failures so CI can gate on the score alone.
const (
	ExitClean     = 0
	ExitSurvivors = 1
	ExitUsage     = 2
	ExitEnv       = 3
)

// CodedError carries the process exit code for a failed command. Silent
// errors have already been reported through the UI and only set the code.
type CodedError struct {
	Code   int
	Silent bool
	err    error
}

func (e *CodedError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}

	return e.err.Error()
}

func (e *CodedError) Unwrap() error { return e.err }

func usageError(format string, args ...any) error {
	return &CodedError{Code: ExitUsage, err: fmt.Errorf(format, args...)}
}

func envError(format string, args ...any) error {
	return &CodedError{Code: ExitEnv, err: fmt.Errorf(format, args...)}
}

// RunArgs contains the arguments for one mutation testing run.
type RunArgs struct {
	Source      m.Path
	Test        m.Path
	TestCmd     string
	Function    string
	TimeoutMult float64
	Session     string
	InPlace     bool
	JSON        bool
	Reports     m.Path
}

// Workflow ties discovery, execution and reporting together behind the CLI.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	Show(ctx context.Context, ref string) error
	Status(ctx context.Context) error
	Functions(ctx context.Context, source m.Path) error
}

type workflow struct {
	fs       adapter.SourceFSAdapter
	runner   adapter.TestRunnerAdapter
	grammars adapter.GrammarAdapter
	store    adapter.ReportStore
	backup   adapter.BackupKeeper
	ui       controller.UI
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	runner adapter.TestRunnerAdapter,
	grammars adapter.GrammarAdapter,
	store adapter.ReportStore,
	backup adapter.BackupKeeper,
	ui controller.UI,
) Workflow {
	return &workflow{
		fs:       fs,
		runner:   runner,
		grammars: grammars,
		store:    store,
		backup:   backup,
		ui:       ui,
	}
}

// Run performs a full mutation testing run: validate inputs, discover
// mutants, calibrate against the clean suite, test every mutant and persist
// the outcome.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	source, language, err := w.resolveSource(args.Source)
	if err != nil {
		return err
	}

	if w.backup.HasStaleBackup(source) {
		w.ui.PrintError(fmt.Sprintf("stale backup found for %s, a previous run died mid-mutation", args.Source))

		if err := w.backup.Restore(source); err != nil {
			return envError("restore stale backup: %w", err)
		}

		w.ui.PrintSuccess("original source restored, run again")

		return &CodedError{Code: ExitEnv, Silent: true}
	}

	test, err := w.resolveTest(args.Test, args.TestCmd)
	if err != nil {
		return err
	}

	original, err := w.fs.ReadFile(source)
	if err != nil {
		return envError("read %s: %w", source, err)
	}

	discoverer, err := NewDiscoverer(language, w.grammars)
	if err != nil {
		return usageError("%w", err)
	}

	if args.Function != "" {
		if err := w.checkFunction(ctx, discoverer, original, args.Function, args.Source); err != nil {
			return err
		}
	}

	mutations, err := discoverer.Discover(ctx, original, args.Function)
	if err != nil {
		return envError("parse %s: %w", args.Source, err)
	}

	session := args.Session
	if session == "" {
		session = uuid.NewString()[:8]
	}

	display := w.displayPath(source)

	if len(mutations) == 0 {
		run := Summarize(nil, display)
		w.persist(session, source, test, run, nil, args.Reports)

		if args.JSON {
			w.printJSON(run)
		} else {
			w.ui.PrintSuccess(fmt.Sprintf("no mutants generated for %s, nothing to test", display))
		}

		return nil
	}

	plan, cleanup, err := w.preparePlan(source, test, session, language, args)
	if err != nil {
		return err
	}
	defer cleanup()

	baseline, err := NewExecutor(w.fs, w.runner).Baseline(ctx, plan)
	if err != nil {
		var bErr *BaselineError
		if errors.As(err, &bErr) {
			w.ui.PrintError("tests fail before any mutation, fix the suite first")
			w.ui.PrintError(strings.TrimSpace(bErr.Output))

			return &CodedError{Code: ExitEnv, Silent: true}
		}

		return envError("baseline run: %w", err)
	}

	w.ui.RunStarted(len(mutations))

	results, runErr := NewExecutor(w.fs, w.runner).Run(ctx, plan, original, mutations, baseline, w.ui.MutantTested)
	w.ui.Wait()

	if runErr != nil {
		return envError("mutation run: %w", runErr)
	}

	run := Summarize(results, display)
	w.persist(session, source, test, run, results, args.Reports)

	if args.JSON {
		w.printJSON(run)
	} else {
		w.ui.RunFinished(run, display)
	}

	if run.Survived > 0 {
		return &CodedError{Code: ExitSurvivors, Silent: true}
	}

	return nil
}

// Show displays a surviving mutant from the last run by its reference.
func (w *workflow) Show(_ context.Context, ref string) error {
	state, err := w.loadState()
	if err != nil {
		return err
	}

	ref = strings.TrimPrefix(ref, "@")

	for _, sm := range state.Result.SurvivedMutants {
		if sm.RefID == ref {
			w.ui.MutantDetail(sm)

			return nil
		}
	}

	refs := make([]string, 0, len(state.Result.SurvivedMutants))
	for _, sm := range state.Result.SurvivedMutants {
		refs = append(refs, "@"+sm.RefID)
	}

	if len(refs) == 0 {
		return usageError("no surviving mutants in the last run")
	}

	return usageError("no surviving mutant %q, known: %s", ref, strings.Join(refs, " "))
}

// Status summarizes the last recorded run.
func (w *workflow) Status(_ context.Context) error {
	state, err := w.loadState()
	if err != nil {
		return err
	}

	w.ui.Status(state.Result, state.Session, state.Timestamp, string(state.SourceFile))

	return nil
}

// Functions lists the function names eligible for --function in source.
func (w *workflow) Functions(ctx context.Context, sourceArg m.Path) error {
	source, language, err := w.resolveSource(sourceArg)
	if err != nil {
		return err
	}

	content, err := w.fs.ReadFile(source)
	if err != nil {
		return envError("read %s: %w", source, err)
	}

	discoverer, err := NewDiscoverer(language, w.grammars)
	if err != nil {
		return usageError("%w", err)
	}

	names, err := discoverer.ListFunctions(ctx, content)
	if err != nil {
		return envError("parse %s: %w", sourceArg, err)
	}

	w.ui.Functions(names, w.displayPath(source))

	return nil
}

func (w *workflow) resolveSource(sourceArg m.Path) (m.Path, m.Language, error) {
	source, err := w.fs.AbsPath(sourceArg)
	if err != nil {
		return "", "", usageError("resolve %s: %w", sourceArg, err)
	}

	if _, err := w.fs.FileInfo(source); err != nil {
		return "", "", usageError("source file not found: %s", sourceArg)
	}

	language, ok := m.DetectLanguage(source)
	if !ok {
		return "", "", usageError("unsupported file type: %s", sourceArg)
	}

	return source, language, nil
}

func (w *workflow) resolveTest(testArg m.Path, testCmd string) (m.Path, error) {
	if !takesTestFile(testCmd) {
		return testArg, nil
	}

	if testArg == "" {
		return "", usageError("missing --test: the test file to run against each mutant")
	}

	test, err := w.fs.AbsPath(testArg)
	if err != nil {
		return "", usageError("resolve %s: %w", testArg, err)
	}

	if _, err := w.fs.FileInfo(test); err != nil {
		return "", usageError("test file not found: %s", testArg)
	}

	return test, nil
}

func (w *workflow) checkFunction(
	ctx context.Context,
	discoverer Discoverer,
	source []byte,
	function string,
	display m.Path,
) error {
	names, err := discoverer.ListFunctions(ctx, source)
	if err != nil {
		return envError("parse %s: %w", display, err)
	}

	for _, name := range names {
		if name == function {
			return nil
		}
	}

	if len(names) == 0 {
		return usageError("function %q not found in %s", function, display)
	}

	return usageError("function %q not found in %s, available: %s", function, display, strings.Join(names, " "))
}

// preparePlan sets up the execution environment. The default is an isolated
// workspace copy of the whole project; --in-place mutates the real file
// under a backup instead.
func (w *workflow) preparePlan(
	source, test m.Path,
	session string,
	language m.Language,
	args RunArgs,
) (Plan, func(), error) {
	invokeDir := m.Path(mustGetwd())

	plan := Plan{
		Language:    language,
		TimeoutMult: args.TimeoutMult,
	}

	if args.InPlace {
		root, err := w.fs.FindProjectRoot(source)
		if err != nil {
			return Plan{}, nil, envError("find project root: %w", err)
		}

		if err := w.backup.Create(source); err != nil {
			return Plan{}, nil, envError("create backup: %w", err)
		}

		plan.SourceFile = source
		plan.TestFile = test
		plan.WorkDir = root
		plan.TestCmd = w.runner.ResolveCommand(args.TestCmd, invokeDir, root)

		cleanup := func() {
			if err := w.backup.Remove(source); err != nil {
				slog.Warn("failed to drop backup", "source", source, "error", err)
			}
		}

		return plan, cleanup, nil
	}

	ws, err := adapter.NewIsolator(w.fs).Prepare(source, test, session)
	if err != nil {
		return Plan{}, nil, envError("prepare workspace: %w", err)
	}

	plan.SourceFile = ws.SourceFile
	plan.TestFile = ws.TestFile
	plan.WorkDir = ws.Root
	plan.TestCmd = w.runner.ResolveCommand(args.TestCmd, invokeDir, ws.Root)

	cleanup := func() {
		if err := ws.Close(); err != nil {
			slog.Warn("failed to remove workspace", "root", ws.Root, "error", err)
		}
	}

	return plan, cleanup, nil
}

// persist records the run in the state file and the reports directory. A
// failed write degrades show/status but never fails the run itself.
func (w *workflow) persist(
	session string,
	source, test m.Path,
	run m.RunResult,
	results []m.MutantResult,
	reports m.Path,
) {
	state := m.RunState{
		Session:    session,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		SourceFile: source,
		TestFile:   test,
		Result:     run,
	}

	if err := w.store.SaveState(m.Path(mustGetwd()), state); err != nil {
		slog.Warn("failed to save run state", "error", err)
	}

	if reports == "" {
		return
	}

	if err := w.store.SaveReports(reports, session, run); err != nil {
		slog.Warn("failed to save reports", "dir", reports, "error", err)
	}

	if len(results) > 0 {
		if _, err := w.store.SpillResults(reports, session, results); err != nil {
			slog.Warn("failed to spill raw results", "dir", reports, "error", err)
		}
	}
}

func (w *workflow) loadState() (m.RunState, error) {
	state, err := w.store.LoadState(m.Path(mustGetwd()))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.RunState{}, usageError("no previous run recorded, run `mutator run` first")
		}

		return m.RunState{}, envError("load run state: %w", err)
	}

	return state, nil
}

// displayPath shortens an absolute path for report output when it sits under
// the invocation directory.
func (w *workflow) displayPath(source m.Path) string {
	rel, err := w.fs.RelPath(m.Path(mustGetwd()), source)
	if err != nil || strings.HasPrefix(string(rel), "..") {
		return string(source)
	}

	return string(rel)
}

func (w *workflow) printJSON(run m.RunResult) {
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(run, "", "  ")
	if err != nil {
		slog.Error("failed to encode run result", "error", err)

		return
	}

	fmt.Println(string(encoded))
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return wd
}
