package controller

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	m "mutator.dev/pkg/mutator/internal/model"
)

// ProgressUI renders an interactive progress bar while mutants run and
// falls back to SimpleUI output for the final report.
type ProgressUI struct {
	*SimpleUI

	program *tea.Program
	finish  chan struct{}
}

func NewProgressUI(out, errOut io.Writer) *ProgressUI {
	return &ProgressUI{SimpleUI: NewSimpleUI(out, errOut)}
}

type mutantMsg struct {
	result m.MutantResult
}

type runDoneMsg struct{}

type progressModel struct {
	bar      progress.Model
	total    int
	done     int
	survived int
	last     string
}

func newProgressModel(total int) progressModel {
	return progressModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
}

func (pm progressModel) Init() tea.Cmd { return nil }

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return pm, tea.Quit
		}
	case tea.WindowSizeMsg:
		pm.bar.Width = msg.Width - 8
	case mutantMsg:
		pm.done++
		mut := msg.result.Mutation
		pm.last = fmt.Sprintf("line %d: %s → %s (%s)",
			mut.Line, mut.Original, mut.Replacement, msg.result.Status)
		if msg.result.Status == m.StatusSurvived {
			pm.survived++
		}
	case runDoneMsg:
		return pm, tea.Quit
	}
	return pm, nil
}

func (pm progressModel) View() string {
	if pm.total == 0 {
		return ""
	}
	view := fmt.Sprintf("%s %d/%d", pm.bar.ViewAs(float64(pm.done)/float64(pm.total)), pm.done, pm.total)
	if pm.survived > 0 {
		view += " " + styleWarn.Render(fmt.Sprintf("%d survived", pm.survived))
	}
	if pm.last != "" {
		view += "\n" + styleNote.Render(pm.last)
	}
	return view + "\n"
}

func (u *ProgressUI) RunStarted(total int) {
	if u.Quiet {
		return
	}
	u.program = tea.NewProgram(newProgressModel(total), tea.WithOutput(u.Out))
	u.finish = make(chan struct{})
	go func() {
		defer close(u.finish)
		_, _ = u.program.Run()
	}()
}

func (u *ProgressUI) MutantTested(result m.MutantResult) {
	if u.program != nil {
		u.program.Send(mutantMsg{result: result})
	}
}

func (u *ProgressUI) RunFinished(run m.RunResult, displayFile string) {
	u.Wait()
	u.SimpleUI.RunFinished(run, displayFile)
}

// Wait blocks until the progress program has shut down so the final
// report does not interleave with the last rendered frame.
func (u *ProgressUI) Wait() {
	if u.program == nil {
		return
	}
	u.program.Send(runDoneMsg{})
	<-u.finish
	u.program = nil
}
