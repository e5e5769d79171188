// Package mutagens holds the pure mutation tables. Every function here maps
// concrete token text to replacement candidates and touches no state, so the
// discoverers own all tree traversal and span bookkeeping.
package mutagens

import (
	m "mutator.dev/pkg/mutator/internal/model"
)

// Candidate is one proposed rewrite of a matched token or expression.
type Candidate struct {
	Operator    m.Operator
	Replacement string
}

func isJSFamily(language m.Language) bool {
	switch language {
	case m.LangJavaScript, m.LangTypeScript, m.LangTSX:
		return true
	default:
		return false
	}
}
