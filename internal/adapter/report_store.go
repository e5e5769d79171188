package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	m "mutator.dev/pkg/mutator/internal/model"
	"mutator.dev/pkg/mutator/pkg"
)

// stateFileName is the per-project record of the latest run. It lives in the
// project root and is excluded from workspace copies.
const stateFileName = ".mutator-state.json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReportStore persists run outcomes: the machine-readable state file, the
// YAML report tree, and the raw per-mutant result log.
type ReportStore interface {
	// SaveState writes the state file into the project root, replacing any
	// previous run's record.
	SaveState(root m.Path, state m.RunState) error

	// LoadState reads the state file back. os.ErrNotExist surfaces when no
	// run has been recorded yet.
	LoadState(root m.Path) (m.RunState, error)

	// SaveReports writes the run summary plus one YAML file per survived
	// mutant under dir, creating it as needed.
	SaveReports(dir m.Path, session string, result m.RunResult) error

	// SpillResults appends every mutant result to a gob log under dir and
	// returns the log's path.
	SpillResults(dir m.Path, session string, results []m.MutantResult) (string, error)
}

// LocalReportStore writes reports and state to the local filesystem.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveState serializes state as JSON next to the project's build files.
func (s *LocalReportStore) SaveState(root m.Path, state m.RunState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run state: %w", err)
	}

	path := filepath.Join(string(root), stateFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run state %s: %w", path, err)
	}

	return nil
}

// LoadState reads the state file from the project root.
func (s *LocalReportStore) LoadState(root m.Path) (m.RunState, error) {
	path := filepath.Join(string(root), stateFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return m.RunState{}, fmt.Errorf("read run state %s: %w", path, err)
	}

	var state m.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return m.RunState{}, fmt.Errorf("decode run state %s: %w", path, err)
	}

	return state, nil
}

// SaveReports writes summary.yaml and one file per survivor under dir.
func (s *LocalReportStore) SaveReports(dir m.Path, session string, result m.RunResult) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir %s: %w", dir, err)
	}

	summary, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	summaryPath := filepath.Join(string(dir), fmt.Sprintf("%s-summary.yaml", session))
	if err := os.WriteFile(summaryPath, summary, 0o644); err != nil {
		return fmt.Errorf("write run summary %s: %w", summaryPath, err)
	}

	for _, mutant := range result.SurvivedMutants {
		data, err := yaml.Marshal(mutant)
		if err != nil {
			return fmt.Errorf("encode mutant report %s: %w", mutant.RefID, err)
		}

		path := filepath.Join(string(dir), fmt.Sprintf("%s-%s.yaml", session, mutant.RefID))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write mutant report %s: %w", path, err)
		}
	}

	return nil
}

// SpillResults streams results into a gob log so a crashed run still leaves
// an inspectable trail.
func (s *LocalReportStore) SpillResults(dir m.Path, session string, results []m.MutantResult) (string, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create reports dir %s: %w", dir, err)
	}

	path := filepath.Join(string(dir), fmt.Sprintf("%s-results.gob", session))

	spill, err := pkg.NewFileSpillAt[m.MutantResult](path)
	if err != nil {
		return "", err
	}
	defer func() { _ = spill.Close() }()

	if err := spill.AppendBatch(results); err != nil {
		return "", err
	}

	return path, nil
}
