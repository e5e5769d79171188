package adapter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "mutator.dev/pkg/mutator/internal/model"
)

// GrammarAdapter encapsulates language-specific parsing so the domain layer
// can focus on mutation rules while delegating grammar details to an
// infrastructure component.
type GrammarAdapter interface {
	// Parse builds a concrete syntax tree for the given source. Callers own
	// the returned tree and must Close it when done.
	Parse(ctx context.Context, language m.Language, src []byte) (*sitter.Tree, error)
}

// TreeSitterAdapter provides a concrete GrammarAdapter backed by the
// tree-sitter grammars bundled with go-tree-sitter.
type TreeSitterAdapter struct{}

// NewTreeSitterAdapter constructs a TreeSitterAdapter.
func NewTreeSitterAdapter() *TreeSitterAdapter {
	return &TreeSitterAdapter{}
}

// Parse builds a syntax tree for the provided language/source pair.
func (a *TreeSitterAdapter) Parse(ctx context.Context, language m.Language, src []byte) (*sitter.Tree, error) {
	grammar, err := grammarFor(language)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", language, err)
	}

	return tree, nil
}

func grammarFor(language m.Language) (*sitter.Language, error) {
	switch language {
	case m.LangPython:
		return python.GetLanguage(), nil
	case m.LangRust:
		return rust.GetLanguage(), nil
	case m.LangJavaScript:
		return javascript.GetLanguage(), nil
	case m.LangTypeScript:
		return typescript.GetLanguage(), nil
	case m.LangTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("no grammar registered for language %q", language)
	}
}
