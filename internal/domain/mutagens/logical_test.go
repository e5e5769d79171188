package mutagens

import (
	"testing"

	m "mutator.dev/pkg/mutator/internal/model"
)

func TestLogicalFlip(t *testing.T) {
	if got := Logical(m.LangPython, "and"); len(got) != 1 || got[0].Replacement != "or" {
		t.Fatalf("and: got %+v", got)
	}
	if got := Logical(m.LangPython, "or"); len(got) != 1 || got[0].Replacement != "and" {
		t.Fatalf("or: got %+v", got)
	}
	if got := Logical(m.LangRust, "&&"); len(got) != 1 || got[0].Replacement != "||" {
		t.Fatalf("&&: got %+v", got)
	}
	if got := Logical(m.LangJavaScript, "||"); len(got) != 1 || got[0].Replacement != "&&" {
		t.Fatalf("||: got %+v", got)
	}
}

func TestLogicalNullishDegradesToOr(t *testing.T) {
	if got := Logical(m.LangTSX, "??"); len(got) != 1 || got[0].Replacement != "||" {
		t.Fatalf("??: got %+v", got)
	}
	if got := Logical(m.LangRust, "??"); got != nil {
		t.Fatalf("Rust has no ?? operator, got %+v", got)
	}
}

func TestLogicalPythonSymbolsRejected(t *testing.T) {
	if got := Logical(m.LangPython, "&&"); got != nil {
		t.Fatalf("Python has no && operator, got %+v", got)
	}
}
