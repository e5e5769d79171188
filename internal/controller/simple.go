package controller

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	m "mutator.dev/pkg/mutator/internal/model"
)

var (
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleSuccess  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleNote     = lipgloss.NewStyle().Faint(true)
	styleRef      = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	styleMutation = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleRemoved  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleAdded    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// SimpleUI prints plain line-oriented output, one line per tested mutant.
type SimpleUI struct {
	Out    io.Writer
	ErrOut io.Writer

	// Quiet suppresses all run output; the exit code carries the verdict.
	Quiet bool

	counter int
}

func NewSimpleUI(out, errOut io.Writer) *SimpleUI {
	return &SimpleUI{Out: out, ErrOut: errOut}
}

func (u *SimpleUI) PrintError(msg string) {
	if u.Quiet {
		return
	}
	fmt.Fprintf(u.ErrOut, "%s %s\n", styleError.Render("✗"), msg)
}

func (u *SimpleUI) PrintSuccess(msg string) {
	if u.Quiet {
		return
	}
	fmt.Fprintf(u.Out, "%s %s\n", styleSuccess.Render("✓"), msg)
}

func (u *SimpleUI) RunStarted(total int) {
	u.counter = 0
	if u.Quiet {
		return
	}
	fmt.Fprintf(u.Out, "testing %d mutants\n", total)
}

func (u *SimpleUI) MutantTested(result m.MutantResult) {
	u.counter++
	if u.Quiet {
		return
	}
	mut := result.Mutation
	line := fmt.Sprintf("[%d] line %d: %s %s",
		u.counter, mut.Line, mut.Operator,
		styleMutation.Render(mut.Original+" → "+mut.Replacement))
	switch result.Status {
	case m.StatusKilled:
		fmt.Fprintf(u.Out, "%s %s (%s)\n", styleSuccess.Render("✓"), line, formatMS(result.DurationMS))
	case m.StatusSurvived:
		fmt.Fprintf(u.Out, "%s %s SURVIVED\n", styleWarn.Render("!"), line)
	case m.StatusTimeout:
		fmt.Fprintf(u.Out, "%s %s timeout\n", styleNote.Render("·"), line)
	case m.StatusUnviable:
		fmt.Fprintf(u.Out, "%s %s unviable\n", styleNote.Render("·"), line)
	}
}

func (u *SimpleUI) RunFinished(run m.RunResult, displayFile string) {
	if u.Quiet {
		return
	}
	fmt.Fprintln(u.Out)
	if run.Total == 0 {
		u.PrintSuccess("no mutants generated, nothing to test")
		return
	}
	score := fmt.Sprintf("%.0f%%", run.Score*100)
	fmt.Fprintf(u.Out, "mutation score: %s (%d/%d killed)\n",
		score, run.Killed, run.Testable())
	if run.Unviable > 0 {
		fmt.Fprintf(u.Out, "%s\n", styleNote.Render(fmt.Sprintf("· %d unviable mutants excluded from score", run.Unviable)))
	}
	if run.Timeout > 0 {
		fmt.Fprintf(u.Out, "%s\n", styleNote.Render(fmt.Sprintf("· %d mutants timed out", run.Timeout)))
	}
	if run.Survived == 0 {
		u.PrintSuccess("all mutants killed")
		return
	}
	fmt.Fprintf(u.Out, "%s %d mutants survived:\n", styleWarn.Render("!"), run.Survived)
	for _, sm := range run.SurvivedMutants {
		fmt.Fprintf(u.Out, "  %s %s:%d %s: %s\n",
			styleRef.Render("@"+sm.RefID), displayFile, sm.Line, sm.Operator,
			styleMutation.Render(sm.Original+" → "+sm.Replacement))
	}
	fmt.Fprintf(u.Out, "%s\n", styleNote.Render("· run `mutator show <ref>` for details"))
}

func (u *SimpleUI) MutantDetail(sm m.SurvivedMutant) {
	fmt.Fprintf(u.Out, "%s %s:%d:%d\n", styleRef.Render("@"+sm.RefID), sm.File, sm.Line, sm.Column)
	fmt.Fprintf(u.Out, "operator: %s\n", sm.Operator)
	fmt.Fprintf(u.Out, "mutation: %s\n", styleMutation.Render(sm.Original+" → "+sm.Replacement))
	fmt.Fprintln(u.Out)
	for _, line := range sm.ContextBefore {
		fmt.Fprintf(u.Out, "  %s\n", styleNote.Render(line))
	}
	if sm.Diff != "" {
		printDiff(u.Out, sm.Diff)
	}
	for _, line := range sm.ContextAfter {
		fmt.Fprintf(u.Out, "  %s\n", styleNote.Render(line))
	}
}

func (u *SimpleUI) Status(run m.RunResult, session, timestamp, displayFile string) {
	fmt.Fprintf(u.Out, "session %s at %s\n", styleRef.Render(session), timestamp)
	fmt.Fprintf(u.Out, "file: %s\n", displayFile)
	fmt.Fprintln(u.Out)

	table := tablewriter.NewWriter(u.Out)
	table.SetHeader([]string{"Status", "Count"})
	table.SetBorder(false)
	table.Append([]string{"killed", strconv.Itoa(run.Killed)})
	table.Append([]string{"survived", strconv.Itoa(run.Survived)})
	table.Append([]string{"timeout", strconv.Itoa(run.Timeout)})
	table.Append([]string{"unviable", strconv.Itoa(run.Unviable)})
	table.Render()

	fmt.Fprintln(u.Out)
	fmt.Fprintf(u.Out, "mutation score: %.0f%% (%d/%d killed)\n",
		run.Score*100, run.Killed, run.Testable())
	fmt.Fprintf(u.Out, "duration: %s\n", formatMS(run.DurationMS))
	if run.Survived > 0 {
		fmt.Fprintf(u.Out, "%s survivors: ", styleWarn.Render("!"))
		for i, sm := range run.SurvivedMutants {
			if i > 0 {
				fmt.Fprint(u.Out, " ")
			}
			fmt.Fprint(u.Out, styleRef.Render("@"+sm.RefID))
		}
		fmt.Fprintln(u.Out)
	}
}

func (u *SimpleUI) Functions(names []string, displayFile string) {
	if len(names) == 0 {
		fmt.Fprintf(u.Out, "%s\n", styleNote.Render("· no mutable functions in "+displayFile))
		return
	}
	fmt.Fprintf(u.Out, "functions in %s:\n", displayFile)
	for _, name := range names {
		fmt.Fprintf(u.Out, "  %s\n", name)
	}
}

func (u *SimpleUI) Wait() {}

func printDiff(out io.Writer, diff string) {
	for _, line := range splitDiffLines(diff) {
		switch {
		case len(line) > 0 && line[0] == '-':
			fmt.Fprintf(out, "  %s\n", styleRemoved.Render(line))
		case len(line) > 0 && line[0] == '+':
			fmt.Fprintf(out, "  %s\n", styleAdded.Render(line))
		default:
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}

func splitDiffLines(diff string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(diff); i++ {
		if diff[i] == '\n' {
			lines = append(lines, diff[start:i])
			start = i + 1
		}
	}
	if start < len(diff) {
		lines = append(lines, diff[start:])
	}
	return lines
}

func formatMS(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}
