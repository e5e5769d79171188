package mutagens

import (
	m "mutator.dev/pkg/mutator/internal/model"
)

// BooleanFlip inverts a boolean literal using the language's casing. The
// second return is false when text is not a boolean literal of that language.
func BooleanFlip(language m.Language, text string) (Candidate, bool) {
	if language == m.LangPython {
		switch text {
		case "True":
			return Candidate{Operator: m.OpBoolFlip, Replacement: "False"}, true
		case "False":
			return Candidate{Operator: m.OpBoolFlip, Replacement: "True"}, true
		}

		return Candidate{}, false
	}

	switch text {
	case "true":
		return Candidate{Operator: m.OpBoolFlip, Replacement: "false"}, true
	case "false":
		return Candidate{Operator: m.OpBoolFlip, Replacement: "true"}, true
	}

	return Candidate{}, false
}
