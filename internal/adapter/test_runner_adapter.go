package adapter

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	m "mutator.dev/pkg/mutator/internal/model"
)

// RunSpec describes a single invocation of the user's test command.
type RunSpec struct {
	// Command is the resolved program to execute.
	Command string

	// LeadingArgs come from the command string itself (the "test" in
	// "npm test") and always precede the test file.
	LeadingArgs []string

	// TestFile is inserted after LeadingArgs when IncludeTestFile is set.
	// Runners like cargo discover tests themselves and take no file argument.
	TestFile        m.Path
	IncludeTestFile bool

	// Args are appended after the test file.
	Args []string

	// Dir is the working directory for the child process.
	Dir m.Path

	// Timeout bounds the run. Zero means no deadline, used for the baseline
	// run whose duration calibrates every later one.
	Timeout time.Duration
}

// RunOutcome captures how a test invocation ended.
type RunOutcome struct {
	TimedOut bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// TestRunnerAdapter abstracts test-process execution so the domain layer can
// classify outcomes without knowing about os/exec.
type TestRunnerAdapter interface {
	// Run executes the test command and blocks until it exits, times out, or
	// the context is cancelled. A timeout is reported in the outcome, not as
	// an error; err is reserved for failures to spawn at all.
	Run(ctx context.Context, spec RunSpec) (RunOutcome, error)

	// ResolveCommand turns the user-supplied command into something
	// executable from dir. Bare names are left to PATH lookup; relative
	// paths are anchored at invokeDir or dir, whichever holds the file,
	// and left unchanged when neither does.
	ResolveCommand(command string, invokeDir, dir m.Path) string

	// ClearBytecodeCache drops stale compiled artifacts for sourceFile so
	// the runtime cannot serve a cached pre-mutation module.
	ClearBytecodeCache(sourceFile m.Path)
}

// LocalTestRunnerAdapter runs test commands as local child processes.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// Run spawns the test command and waits for exit, kill-on-timeout, or
// cancellation.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, spec RunSpec) (RunOutcome, error) {
	argv := make([]string, 0, len(spec.LeadingArgs)+len(spec.Args)+1)
	argv = append(argv, spec.LeadingArgs...)
	if spec.IncludeTestFile {
		argv = append(argv, string(spec.TestFile))
	}
	argv = append(argv, spec.Args...)

	cmd := exec.Command(spec.Command, argv...)
	cmd.Dir = string(spec.Dir)
	// Quiets fork-safety aborts from Objective-C frameworks when pytest
	// plugins fork on macOS.
	cmd.Env = append(os.Environ(), "OBJC_DISABLE_INITIALIZE_FORK_SAFETY=YES")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunOutcome{}, err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var deadline <-chan time.Time
	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	outcome := RunOutcome{}

	select {
	case waitErr := <-done:
		outcome.ExitCode = exitCode(waitErr)
	case <-deadline:
		_ = cmd.Process.Kill()
		<-done
		outcome.TimedOut = true
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done

		return RunOutcome{}, ctx.Err()
	}

	outcome.Duration = time.Since(start)
	outcome.Stdout = stdout.String()
	outcome.Stderr = stderr.String()

	return outcome, nil
}

// ResolveCommand anchors relative command paths so they survive the chdir
// into an isolated workspace.
func (a *LocalTestRunnerAdapter) ResolveCommand(command string, invokeDir, dir m.Path) string {
	if filepath.IsAbs(command) {
		return command
	}

	if !strings.ContainsRune(command, os.PathSeparator) && !strings.ContainsRune(command, '/') {
		return command
	}

	fromInvoke := filepath.Join(string(invokeDir), command)
	if _, err := os.Stat(fromInvoke); err == nil {
		return fromInvoke
	}

	fromDir := filepath.Join(string(dir), command)
	if _, err := os.Stat(fromDir); err == nil {
		return fromDir
	}

	return command
}

// ClearBytecodeCache removes __pycache__ entries compiled from sourceFile.
// Other runtimes keep no adjacent bytecode, so unknown layouts are a no-op.
func (a *LocalTestRunnerAdapter) ClearBytecodeCache(sourceFile m.Path) {
	clearBytecodeCache(sourceFile)
}

func clearBytecodeCache(sourceFile m.Path) {
	dir := filepath.Dir(string(sourceFile))
	stem := strings.TrimSuffix(filepath.Base(string(sourceFile)), filepath.Ext(string(sourceFile)))

	matches, err := filepath.Glob(filepath.Join(dir, "__pycache__", stem+"*.pyc"))
	if err != nil {
		return
	}

	for _, match := range matches {
		_ = os.Remove(match)
	}
}

func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}

	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}

	return -1
}
