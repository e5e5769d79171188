package domain

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"mutator.dev/pkg/mutator/internal/adapter"
	"mutator.dev/pkg/mutator/internal/domain/mutagens"
	m "mutator.dev/pkg/mutator/internal/model"
)

// rustDiscoverer walks Rust syntax trees. Only explicit return expressions
// are rewritten; trailing-expression returns carry no keyword to anchor on.
type rustDiscoverer struct {
	grammars adapter.GrammarAdapter
}

func (d *rustDiscoverer) Discover(ctx context.Context, source []byte, functionName string) ([]m.Mutation, error) {
	tree, err := d.grammars.Parse(ctx, m.LangRust, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	lines := sourceLines(source)

	var mutations []m.Mutation

	if functionName != "" {
		if fn := findRustFunction(tree.RootNode(), functionName, source); fn != nil {
			d.walk(fn, source, lines, &mutations)
		}

		return mutations, nil
	}

	d.collectFunctions(tree.RootNode(), source, lines, &mutations)

	return mutations, nil
}

func (d *rustDiscoverer) ListFunctions(ctx context.Context, source []byte) ([]string, error) {
	tree, err := d.grammars.Parse(ctx, m.LangRust, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var names []string

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node.Type() == "function_item" {
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				names = append(names, nameNode.Content(source))
			}
		}

		eachChild(node, visit)
	}
	visit(tree.RootNode())

	return names, nil
}

func findRustFunction(node *sitter.Node, name string, source []byte) *sitter.Node {
	if node.Type() == "function_item" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil && nameNode.Content(source) == name {
			return node
		}
	}

	return firstHit(node, func(child *sitter.Node) *sitter.Node {
		return findRustFunction(child, name, source)
	})
}

func (d *rustDiscoverer) collectFunctions(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if node.Type() == "function_item" {
		d.walk(node, source, lines, mutations)

		return
	}

	eachChild(node, func(child *sitter.Node) {
		d.collectFunctions(child, source, lines, mutations)
	})
}

func (d *rustDiscoverer) walk(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if rustSkips(node, source) {
		return
	}

	switch node.Type() {
	case "binary_expression":
		d.binary(node, source, lines, mutations)
	case "unary_expression":
		d.negation(node, source, lines, mutations)
	case "return_expression":
		d.returns(node, source, lines, mutations)
	case "boolean_literal":
		d.booleans(node, source, lines, mutations)
	case "if_expression":
		d.ifBody(node, source, lines, mutations)
	}

	eachChild(node, func(child *sitter.Node) {
		d.walk(child, source, lines, mutations)
	})
}

// rustSkips filters print and logging macro invocations.
func rustSkips(node *sitter.Node, source []byte) bool {
	if node.Type() != "macro_invocation" {
		return false
	}

	mac := node.Child(0)
	if mac == nil {
		return false
	}

	text := mac.Content(source)
	for _, prefix := range []string{"println", "eprintln", "print", "log", "debug", "info", "warn", "error", "trace"} {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}

	return text == "format"
}

func (d *rustDiscoverer) binary(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	eachChild(node, func(child *sitter.Node) {
		op := child.Content(source)

		var candidates []mutagens.Candidate

		switch child.Type() {
		case ">", ">=", "<", "<=", "==", "!=":
			candidates = mutagens.Comparison(m.LangRust, op)
		case "&&", "||":
			candidates = mutagens.Logical(m.LangRust, op)
		case "+", "-", "*", "/", "%":
			candidates = mutagens.Arithmetic(m.LangRust, op)
		}

		for _, candidate := range candidates {
			*mutations = append(*mutations, mutationAt(child, child, lines, candidate.Operator, op, candidate.Replacement))
		}
	})
}

func (d *rustDiscoverer) negation(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	opNode := node.Child(0)
	if opNode == nil || opNode.Type() != "!" {
		return
	}

	operand := node.Child(1)
	if operand == nil {
		return
	}

	*mutations = append(*mutations, mutationAt(
		opNode, node, lines, m.OpNegateRemove, node.Content(source), operand.Content(source)))
}

func (d *rustDiscoverer) returns(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if node.ChildCount() < 2 {
		return
	}

	expr := node.Child(1)
	if expr == nil {
		return
	}

	candidate, ok := mutagens.ReturnValue(m.LangRust, expr.Content(source))
	if !ok {
		return
	}

	*mutations = append(*mutations, mutationAt(
		node, node, lines, candidate.Operator, node.Content(source), candidate.Replacement))
}

func (d *rustDiscoverer) booleans(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if parent := node.Parent(); parent != nil && parent.Type() == "return_expression" {
		return
	}

	text := node.Content(source)

	candidate, ok := mutagens.BooleanFlip(m.LangRust, text)
	if !ok {
		return
	}

	*mutations = append(*mutations, mutationAt(node, node, lines, candidate.Operator, text, candidate.Replacement))
}

// ifBody replaces only the consequence block; else arms keep their behavior
// so the mutant stays compilable when the if yields a value.
func (d *rustDiscoverer) ifBody(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	consequence := node.ChildByFieldName("consequence")
	if consequence == nil || consequence.Type() != "block" {
		return
	}

	text := consequence.Content(source)
	if strings.TrimSpace(text) == "{}" {
		return
	}

	*mutations = append(*mutations, mutationAt(consequence, consequence, lines, m.OpBlockRemove, text, "{}"))
}
