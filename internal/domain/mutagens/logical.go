package mutagens

import (
	m "mutator.dev/pkg/mutator/internal/model"
)

// Logical returns the rewrite for a logical connective. Nullish coalescing
// has no true inverse and degrades to disjunction.
func Logical(language m.Language, op string) []Candidate {
	if language == m.LangPython {
		switch op {
		case "and":
			return []Candidate{{Operator: m.OpLogicFlip, Replacement: "or"}}
		case "or":
			return []Candidate{{Operator: m.OpLogicFlip, Replacement: "and"}}
		}

		return nil
	}

	switch op {
	case "&&":
		return []Candidate{{Operator: m.OpLogicFlip, Replacement: "||"}}
	case "||":
		return []Candidate{{Operator: m.OpLogicFlip, Replacement: "&&"}}
	case "??":
		if isJSFamily(language) {
			return []Candidate{{Operator: m.OpLogicFlip, Replacement: "||"}}
		}
	}

	return nil
}
