package domain

import (
	"context"
	"strings"
	"testing"

	"mutator.dev/pkg/mutator/internal/adapter"
	m "mutator.dev/pkg/mutator/internal/model"
)

func discover(t *testing.T, language m.Language, source, function string) []m.Mutation {
	t.Helper()

	d, err := NewDiscoverer(language, adapter.NewTreeSitterAdapter())
	if err != nil {
		t.Fatalf("NewDiscoverer: %v", err)
	}

	mutations, err := d.Discover(context.Background(), []byte(source), function)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	for _, mutation := range mutations {
		if got := source[mutation.StartByte:mutation.EndByte]; got != mutation.Original {
			t.Errorf("byte range [%d:%d) = %q, want recorded original %q",
				mutation.StartByte, mutation.EndByte, got, mutation.Original)
		}
	}

	return mutations
}

func operators(mutations []m.Mutation) []m.Operator {
	ops := make([]m.Operator, 0, len(mutations))
	for _, mutation := range mutations {
		ops = append(ops, mutation.Operator)
	}

	return ops
}

func countOperator(mutations []m.Mutation, op m.Operator) int {
	n := 0
	for _, mutation := range mutations {
		if mutation.Operator == op {
			n++
		}
	}

	return n
}

func TestPythonDiscoverArithmeticAndReturn(t *testing.T) {
	source := "def add(a, b):\n    return a + b\n"

	mutations := discover(t, m.LangPython, source, "")

	if len(mutations) != 2 {
		t.Fatalf("expected 2 mutations, got %d: %v", len(mutations), operators(mutations))
	}
	if countOperator(mutations, m.OpArith) != 1 {
		t.Errorf("expected one arith mutation, got %v", operators(mutations))
	}
	if countOperator(mutations, m.OpReturnVal) != 1 {
		t.Errorf("expected one return_val mutation, got %v", operators(mutations))
	}

	for _, mutation := range mutations {
		if mutation.Operator == m.OpReturnVal && mutation.Replacement != "return None" {
			t.Errorf("generic return replacement = %q, want return None", mutation.Replacement)
		}
	}
}

func TestPythonDiscoverComparisonAndBlock(t *testing.T) {
	source := "def check(a):\n    if a > 0:\n        return True\n    return False\n"

	mutations := discover(t, m.LangPython, source, "")

	if countOperator(mutations, m.OpBoundary) != 1 || countOperator(mutations, m.OpNegateCmp) != 1 {
		t.Errorf("expected boundary+negate pair for >, got %v", operators(mutations))
	}
	if countOperator(mutations, m.OpBlockRemove) != 1 {
		t.Errorf("expected one block_remove, got %v", operators(mutations))
	}
	// Boolean literals inside returns go through the return path only.
	if countOperator(mutations, m.OpBoolFlip) != 0 {
		t.Errorf("bool literals in returns must not double count: %v", operators(mutations))
	}
	if countOperator(mutations, m.OpReturnVal) != 2 {
		t.Errorf("expected two return_val mutations, got %v", operators(mutations))
	}

	for _, mutation := range mutations {
		if mutation.Operator == m.OpBlockRemove {
			if !strings.HasSuffix(mutation.Replacement, "pass") {
				t.Errorf("python block removal must insert pass, got %q", mutation.Replacement)
			}
		}
	}
}

func TestPythonDiscoverSkipsModuleLevelCode(t *testing.T) {
	source := "x = 1 + 2\ny = x > 0\n"

	if mutations := discover(t, m.LangPython, source, ""); len(mutations) != 0 {
		t.Fatalf("module-level statements must not be mutated, got %v", operators(mutations))
	}
}

func TestPythonDiscoverFunctionScoping(t *testing.T) {
	source := "def first(a):\n    return a + 1\n\ndef second(b):\n    return b - 1\n"

	all := discover(t, m.LangPython, source, "")
	scoped := discover(t, m.LangPython, source, "second")

	if len(scoped) >= len(all) {
		t.Fatalf("scoped discovery must be smaller: all=%d scoped=%d", len(all), len(scoped))
	}

	for _, mutation := range scoped {
		if mutation.Line < 4 {
			t.Errorf("mutation at line %d leaked out of function second", mutation.Line)
		}
	}

	if unknown := discover(t, m.LangPython, source, "missing"); len(unknown) != 0 {
		t.Errorf("unknown function must yield empty list, got %d", len(unknown))
	}
}

func TestPythonDiscoverNegateRemove(t *testing.T) {
	source := "def flip(a):\n    b = not a\n    return b\n"

	mutations := discover(t, m.LangPython, source, "")

	found := false
	for _, mutation := range mutations {
		if mutation.Operator == m.OpNegateRemove {
			found = true
			if mutation.Original != "not a" || mutation.Replacement != "a" {
				t.Errorf("negate_remove %q -> %q, want not a -> a", mutation.Original, mutation.Replacement)
			}
		}
	}

	if !found {
		t.Fatalf("expected a negate_remove mutation, got %v", operators(mutations))
	}
}

func TestPythonDiscoverSkipsStringConcatAndPrint(t *testing.T) {
	source := "def greet(name):\n    print(\"hi \" + name)\n    return \"a\" + \"b\"\n"

	mutations := discover(t, m.LangPython, source, "")

	if countOperator(mutations, m.OpArith) != 0 {
		t.Errorf("string concatenation must not produce arith mutations: %v", operators(mutations))
	}

	for _, mutation := range mutations {
		if mutation.Operator == m.OpReturnVal && mutation.Replacement != `return ""` {
			t.Errorf("string return replacement = %q", mutation.Replacement)
		}
	}
}

func TestPythonDiscoverIdentityAndMembership(t *testing.T) {
	source := "def has(a, items):\n    found = a in items\n    same = a is None\n    return found and same\n"

	mutations := discover(t, m.LangPython, source, "")

	if countOperator(mutations, m.OpNegateIn) != 1 {
		t.Errorf("expected one negate_in, got %v", operators(mutations))
	}
	if countOperator(mutations, m.OpNegateIs) != 1 {
		t.Errorf("expected one negate_is, got %v", operators(mutations))
	}
	if countOperator(mutations, m.OpLogicFlip) != 1 {
		t.Errorf("expected one logic_flip for and, got %v", operators(mutations))
	}
}

func TestPythonDiscoverEmptySource(t *testing.T) {
	if mutations := discover(t, m.LangPython, "", ""); len(mutations) != 0 {
		t.Fatalf("empty source must yield no mutations, got %d", len(mutations))
	}
}

func TestPythonListFunctions(t *testing.T) {
	source := "def public(a):\n    return a\n\ndef __dunder__(self):\n    return 1\n\ndef test_public():\n    pass\n"

	d, err := NewDiscoverer(m.LangPython, adapter.NewTreeSitterAdapter())
	if err != nil {
		t.Fatalf("NewDiscoverer: %v", err)
	}

	names, err := d.ListFunctions(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("ListFunctions: %v", err)
	}

	if len(names) != 1 || names[0] != "public" {
		t.Fatalf("expected [public], got %v", names)
	}
}

func TestPythonContextLines(t *testing.T) {
	source := "def f(a):\n    x = 1\n    y = 2\n    return a + x + y\n"

	mutations := discover(t, m.LangPython, source, "")

	for _, mutation := range mutations {
		if mutation.Operator != m.OpReturnVal {
			continue
		}
		if len(mutation.ContextBefore) != 2 {
			t.Errorf("expected 2 context lines before, got %v", mutation.ContextBefore)
		}
		if len(mutation.ContextAfter) != 0 {
			t.Errorf("expected no context after the last line, got %v", mutation.ContextAfter)
		}
	}
}
