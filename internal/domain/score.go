package domain

import (
	"fmt"

	m "mutator.dev/pkg/mutator/internal/model"
)

// Summarize reduces per-mutant results into a run result. Unviable mutants
// are excluded from the score denominator; a run with nothing testable
// scores 1.0 because no mutant survived.
func Summarize(results []m.MutantResult, displayFile string) m.RunResult {
	run := m.RunResult{Total: len(results)}

	for _, result := range results {
		run.DurationMS += result.DurationMS

		switch result.Status {
		case m.StatusKilled:
			run.Killed++
		case m.StatusTimeout:
			run.Timeout++
		case m.StatusUnviable:
			run.Unviable++
		case m.StatusSurvived:
			run.Survived++
			mutation := result.Mutation
			run.SurvivedMutants = append(run.SurvivedMutants, m.SurvivedMutant{
				RefID:         fmt.Sprintf("m%d", run.Survived),
				File:          displayFile,
				Line:          mutation.Line,
				Column:        mutation.Column,
				Operator:      mutation.Operator,
				Original:      mutation.Original,
				Replacement:   mutation.Replacement,
				Diff:          result.Diff,
				ContextBefore: mutation.ContextBefore,
				ContextAfter:  mutation.ContextAfter,
			})
		}
	}

	if testable := run.Testable(); testable > 0 {
		run.Score = float64(run.Killed) / float64(testable)
	} else {
		run.Score = 1.0
	}

	return run
}
