package mutagens

import (
	m "mutator.dev/pkg/mutator/internal/model"
)

// Arithmetic returns the single adjacent-operator rewrite for an arithmetic
// token. Exponent and floor-division collapse toward their simpler neighbor
// rather than cycling through every alternative.
func Arithmetic(language m.Language, op string) []Candidate {
	switch op {
	case "+":
		return []Candidate{{Operator: m.OpArith, Replacement: "-"}}
	case "-":
		return []Candidate{{Operator: m.OpArith, Replacement: "+"}}
	case "*":
		return []Candidate{{Operator: m.OpArith, Replacement: "/"}}
	case "/":
		return []Candidate{{Operator: m.OpArith, Replacement: "*"}}
	case "%":
		return []Candidate{{Operator: m.OpArith, Replacement: "/"}}
	case "//":
		if language == m.LangPython {
			return []Candidate{{Operator: m.OpArith, Replacement: "/"}}
		}
	case "**":
		if language == m.LangPython || isJSFamily(language) {
			return []Candidate{{Operator: m.OpArith, Replacement: "*"}}
		}
	}

	return nil
}
