package mutagens

import (
	m "mutator.dev/pkg/mutator/internal/model"
)

// Comparison returns the rewrites for a comparison operator token. Relational
// operators produce two candidates, a boundary shift and a logical negation.
// Equality and identity operators produce a single negation.
func Comparison(language m.Language, op string) []Candidate {
	switch op {
	case ">":
		return []Candidate{
			{Operator: m.OpBoundary, Replacement: ">="},
			{Operator: m.OpNegateCmp, Replacement: "<="},
		}
	case ">=":
		return []Candidate{
			{Operator: m.OpBoundary, Replacement: ">"},
			{Operator: m.OpNegateCmp, Replacement: "<"},
		}
	case "<":
		return []Candidate{
			{Operator: m.OpBoundary, Replacement: "<="},
			{Operator: m.OpNegateCmp, Replacement: ">="},
		}
	case "<=":
		return []Candidate{
			{Operator: m.OpBoundary, Replacement: "<"},
			{Operator: m.OpNegateCmp, Replacement: ">"},
		}
	case "==":
		return []Candidate{{Operator: m.OpNegateEq, Replacement: "!="}}
	case "!=":
		return []Candidate{{Operator: m.OpNegateEq, Replacement: "=="}}
	}

	if language == m.LangPython {
		switch op {
		case "is":
			return []Candidate{{Operator: m.OpNegateIs, Replacement: "is not"}}
		case "is not":
			return []Candidate{{Operator: m.OpNegateIs, Replacement: "is"}}
		case "in":
			return []Candidate{{Operator: m.OpNegateIn, Replacement: "not in"}}
		case "not in":
			return []Candidate{{Operator: m.OpNegateIn, Replacement: "in"}}
		}
	}

	if isJSFamily(language) {
		switch op {
		case "===":
			return []Candidate{{Operator: m.OpNegateEq, Replacement: "!=="}}
		case "!==":
			return []Candidate{{Operator: m.OpNegateEq, Replacement: "==="}}
		}
	}

	return nil
}
