// Package domain contains the mutation discovery and execution logic.
package domain

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"mutator.dev/pkg/mutator/internal/adapter"
	m "mutator.dev/pkg/mutator/internal/model"
)

// contextRadius is how many lines around a mutation are captured for reports.
const contextRadius = 2

// Discoverer produces the ordered mutation list for one source file.
type Discoverer interface {
	// Discover parses source and returns every applicable mutation. When
	// functionName is non-empty only that function's subtree is considered;
	// an unknown name yields an empty list, not an error.
	Discover(ctx context.Context, source []byte, functionName string) ([]m.Mutation, error)

	// ListFunctions enumerates the callable names eligible for Discover's
	// functionName parameter, in source order.
	ListFunctions(ctx context.Context, source []byte) ([]string, error)
}

// NewDiscoverer selects the discoverer for a language family.
func NewDiscoverer(language m.Language, grammars adapter.GrammarAdapter) (Discoverer, error) {
	switch language {
	case m.LangPython:
		return &pythonDiscoverer{grammars: grammars}, nil
	case m.LangRust:
		return &rustDiscoverer{grammars: grammars}, nil
	case m.LangJavaScript, m.LangTypeScript, m.LangTSX:
		return &jsDiscoverer{grammars: grammars, dialect: language}, nil
	default:
		return nil, fmt.Errorf("no discoverer for language %q", language)
	}
}

// sourceLines splits source for context extraction, tolerating CRLF endings.
func sourceLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// contextAround returns up to contextRadius lines before and after row,
// excluding the row itself.
func contextAround(lines []string, row int) (before, after []string) {
	start := row - contextRadius
	if start < 0 {
		start = 0
	}

	end := row + contextRadius + 1
	if end > len(lines) {
		end = len(lines)
	}

	if row > len(lines) {
		row = len(lines)
	}

	before = append([]string{}, lines[start:row]...)
	if row+1 < end {
		after = append([]string{}, lines[row+1:end]...)
	}

	return before, after
}

// mutationAt builds a Mutation anchored at anchor's position spanning span.
func mutationAt(anchor, span *sitter.Node, lines []string, operator m.Operator, original, replacement string) m.Mutation {
	before, after := contextAround(lines, int(anchor.StartPoint().Row))

	return m.Mutation{
		Line:          int(anchor.StartPoint().Row) + 1,
		Column:        int(anchor.StartPoint().Column) + 1,
		StartByte:     int(span.StartByte()),
		EndByte:       int(span.EndByte()),
		Operator:      operator,
		Original:      original,
		Replacement:   replacement,
		ContextBefore: before,
		ContextAfter:  after,
	}
}

// eachChild invokes fn for every direct child of node.
func eachChild(node *sitter.Node, fn func(child *sitter.Node)) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		if child := node.Child(i); child != nil {
			fn(child)
		}
	}
}

// firstHit walks children until fn returns a node.
func firstHit(node *sitter.Node, fn func(child *sitter.Node) *sitter.Node) *sitter.Node {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		if child := node.Child(i); child != nil {
			if found := fn(child); found != nil {
				return found
			}
		}
	}

	return nil
}
