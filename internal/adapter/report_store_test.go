package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutator.dev/pkg/mutator/internal/model"
	"mutator.dev/pkg/mutator/pkg"
)

func sampleRunResult() m.RunResult {
	return m.RunResult{
		Score:      0.5,
		Total:      3,
		Killed:     1,
		Survived:   1,
		Unviable:   1,
		DurationMS: 1234,
		SurvivedMutants: []m.SurvivedMutant{{
			RefID:       "m1",
			File:        "calc.py",
			Line:        7,
			Column:      12,
			Operator:    m.OpBoundary,
			Original:    ">",
			Replacement: ">=",
			Diff:        "-     if a > b:\n+     if a >= b:\n",
		}},
	}
}

func TestStateRoundTrip(t *testing.T) {
	store := NewLocalReportStore()
	root := m.Path(t.TempDir())

	state := m.RunState{
		Session:    "cafe0123",
		Timestamp:  "2026-08-26T10:00:00Z",
		SourceFile: "/project/calc.py",
		TestFile:   "/project/test_calc.py",
		Result:     sampleRunResult(),
	}

	require.NoError(t, store.SaveState(root, state))

	loaded, err := store.LoadState(root)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestLoadStateMissing(t *testing.T) {
	store := NewLocalReportStore()

	_, err := store.LoadState(m.Path(t.TempDir()))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveStateReplacesPreviousRun(t *testing.T) {
	store := NewLocalReportStore()
	root := m.Path(t.TempDir())

	require.NoError(t, store.SaveState(root, m.RunState{Session: "first000"}))
	require.NoError(t, store.SaveState(root, m.RunState{Session: "second00"}))

	loaded, err := store.LoadState(root)
	require.NoError(t, err)
	assert.Equal(t, "second00", loaded.Session)
}

func TestSaveReportsWritesSummaryAndSurvivors(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	require.NoError(t, store.SaveReports(dir, "cafe0123", sampleRunResult()))

	summary, err := os.ReadFile(filepath.Join(string(dir), "cafe0123-summary.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "score: 0.5")

	mutant, err := os.ReadFile(filepath.Join(string(dir), "cafe0123-m1.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(mutant), "ref_id: m1")
	assert.Contains(t, string(mutant), "operator: boundary")
}

func TestSpillResultsRoundTrip(t *testing.T) {
	store := NewLocalReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	results := []m.MutantResult{
		{Mutation: m.Mutation{Line: 3, Original: "+", Replacement: "-"}, Status: m.StatusKilled, DurationMS: 50},
		{Mutation: m.Mutation{Line: 5, Original: ">", Replacement: ">="}, Status: m.StatusSurvived, DurationMS: 60},
	}

	path, err := store.SpillResults(dir, "cafe0123", results)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(string(dir), "cafe0123-results.gob"), path)

	spill, err := pkg.NewFileSpillAt[m.MutantResult](filepath.Join(string(dir), "reread.gob"))
	require.NoError(t, err)
	defer spill.Close()

	require.NoError(t, spill.AppendBatch(results))

	got, err := spill.Get(1)
	require.NoError(t, err)
	assert.Equal(t, m.StatusSurvived, got.Status)
}
