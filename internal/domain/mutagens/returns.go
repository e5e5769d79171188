package mutagens

import (
	"strconv"
	"strings"

	m "mutator.dev/pkg/mutator/internal/model"
)

// ReturnValue maps the textual shape of a return expression to the one
// replacement return statement for its language. The classification is purely
// textual since no type information exists. The second return is false when
// the expression carries no useful inverse, e.g. Rust unit returns.
func ReturnValue(language m.Language, exprText string) (Candidate, bool) {
	trimmed := strings.TrimSpace(exprText)

	var replacement string

	switch language {
	case m.LangPython:
		replacement = pythonReturn(trimmed)
	case m.LangRust:
		var ok bool
		replacement, ok = rustReturn(trimmed)
		if !ok {
			return Candidate{}, false
		}
	default:
		replacement = jsReturn(trimmed)
	}

	return Candidate{Operator: m.OpReturnVal, Replacement: replacement}, true
}

// BareReturn handles `return` with no expression. Rust has no meaningful
// rewrite for it.
func BareReturn(language m.Language) (Candidate, bool) {
	switch language {
	case m.LangPython:
		return Candidate{Operator: m.OpReturnVal, Replacement: "return None"}, true
	case m.LangRust:
		return Candidate{}, false
	default:
		return Candidate{Operator: m.OpReturnVal, Replacement: "return undefined;"}, true
	}
}

func pythonReturn(trimmed string) string {
	switch {
	case trimmed == "None":
		return `return ""`
	case trimmed == "True":
		return "return False"
	case trimmed == "False":
		return "return True"
	case strings.HasPrefix(trimmed, `"`) || strings.HasPrefix(trimmed, "'") ||
		strings.HasPrefix(trimmed, `f"`) || strings.HasPrefix(trimmed, "f'"):
		return `return ""`
	case strings.HasPrefix(trimmed, "["):
		return "return []"
	case strings.HasPrefix(trimmed, "{"):
		return "return {}"
	case trimmed == "0":
		return "return 1"
	case isNumeric(trimmed):
		return "return 0"
	default:
		return "return None"
	}
}

func jsReturn(trimmed string) string {
	switch {
	case trimmed == "true":
		return "return false;"
	case trimmed == "false":
		return "return true;"
	case trimmed == "null" || trimmed == "undefined":
		return `return "";`
	case trimmed == "0":
		return "return 1;"
	case strings.HasPrefix(trimmed, `"`) || strings.HasPrefix(trimmed, "'") || strings.HasPrefix(trimmed, "`"):
		return `return "";`
	case strings.HasPrefix(trimmed, "["):
		return "return [];"
	case trimmed == "{}":
		return "return null;"
	case strings.HasPrefix(trimmed, "{"):
		return "return {};"
	case isNumeric(trimmed):
		return "return 0;"
	default:
		return "return null;"
	}
}

func rustReturn(trimmed string) (string, bool) {
	switch {
	case trimmed == "true":
		return "return false", true
	case trimmed == "false":
		return "return true", true
	case trimmed == "None" || trimmed == "()" || trimmed == "Ok(())":
		return "", false
	case trimmed == "0":
		return "return 1", true
	case strings.HasPrefix(trimmed, `"`):
		return `return "".to_string()`, true
	case strings.HasPrefix(trimmed, "vec!") || strings.HasPrefix(trimmed, "Vec::"):
		return "return vec![]", true
	default:
		return "return Default::default()", true
	}
}

func isNumeric(text string) bool {
	_, err := strconv.ParseFloat(text, 64)

	return err == nil
}
