package model

// SurvivedMutant is the catalog entry kept for each mutant the tests missed.
type SurvivedMutant struct {
	RefID         string   `json:"ref_id" yaml:"ref_id"`
	File          string   `json:"file" yaml:"file"`
	Line          int      `json:"line" yaml:"line"`
	Column        int      `json:"column" yaml:"column"`
	Operator      Operator `json:"operator" yaml:"operator"`
	Original      string   `json:"original" yaml:"original"`
	Replacement   string   `json:"replacement" yaml:"replacement"`
	Diff          string   `json:"diff" yaml:"diff"`
	ContextBefore []string `json:"context_before" yaml:"context_before"`
	ContextAfter  []string `json:"context_after" yaml:"context_after"`
}

// RunResult is the aggregate outcome of one mutation-testing run.
type RunResult struct {
	Score           float64          `json:"score" yaml:"score"`
	Total           int              `json:"total" yaml:"total"`
	Killed          int              `json:"killed" yaml:"killed"`
	Survived        int              `json:"survived" yaml:"survived"`
	Timeout         int              `json:"timeout" yaml:"timeout"`
	Unviable        int              `json:"unviable" yaml:"unviable"`
	DurationMS      int64            `json:"duration_ms" yaml:"duration_ms"`
	SurvivedMutants []SurvivedMutant `json:"survived_mutants" yaml:"survived_mutants"`
}

// Testable returns the score denominator: all mutants that produced a real
// semantic signal (everything except unviable ones).
func (r RunResult) Testable() int {
	return r.Total - r.Unviable
}
