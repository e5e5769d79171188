// Package controller renders run progress and reports to the terminal.
package controller

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "mutator.dev/pkg/mutator/internal/model"
)

// UI receives run lifecycle events and displays them to the user.
// The executor calls MutantTested from its result callback, so the
// methods must be safe to call from the run loop.
type UI interface {
	PrintError(msg string)
	PrintSuccess(msg string)
	RunStarted(total int)
	MutantTested(result m.MutantResult)
	RunFinished(run m.RunResult, displayFile string)
	MutantDetail(mutant m.SurvivedMutant)
	Status(run m.RunResult, session, timestamp, displayFile string)
	Functions(names []string, displayFile string)
	Wait()
}

// NewUI picks the interactive progress UI on a terminal and the plain
// line-oriented one everywhere else.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewProgressUI(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return NewSimpleUI(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
