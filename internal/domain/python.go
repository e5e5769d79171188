package domain

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"mutator.dev/pkg/mutator/internal/adapter"
	"mutator.dev/pkg/mutator/internal/domain/mutagens"
	m "mutator.dev/pkg/mutator/internal/model"
)

// pythonDiscoverer walks Python syntax trees. Module-level statements are
// never mutated; traversal enters the tree only through function definitions.
type pythonDiscoverer struct {
	grammars adapter.GrammarAdapter
}

func (d *pythonDiscoverer) Discover(ctx context.Context, source []byte, functionName string) ([]m.Mutation, error) {
	tree, err := d.grammars.Parse(ctx, m.LangPython, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	lines := sourceLines(source)

	var mutations []m.Mutation

	if functionName != "" {
		if fn := findPythonFunction(tree.RootNode(), functionName, source); fn != nil {
			d.walk(fn, source, lines, &mutations)
		}

		return mutations, nil
	}

	d.collectFunctions(tree.RootNode(), source, lines, &mutations)

	return mutations, nil
}

func (d *pythonDiscoverer) ListFunctions(ctx context.Context, source []byte) ([]string, error) {
	tree, err := d.grammars.Parse(ctx, m.LangPython, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var names []string

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node.Type() == "function_definition" {
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				name := nameNode.Content(source)
				if !strings.HasPrefix(name, "__") && !strings.HasPrefix(name, "test_") {
					names = append(names, name)
				}
			}
		}

		eachChild(node, visit)
	}
	visit(tree.RootNode())

	return names, nil
}

func findPythonFunction(node *sitter.Node, name string, source []byte) *sitter.Node {
	if node.Type() == "function_definition" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil && nameNode.Content(source) == name {
			return node
		}
	}

	return firstHit(node, func(child *sitter.Node) *sitter.Node {
		return findPythonFunction(child, name, source)
	})
}

// collectFunctions descends to top-level function definitions and walks each
// once. Nested functions are reached by the walk itself, so recursion stops
// at the first function boundary.
func (d *pythonDiscoverer) collectFunctions(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if node.Type() == "function_definition" {
		d.walk(node, source, lines, mutations)

		return
	}

	eachChild(node, func(child *sitter.Node) {
		d.collectFunctions(child, source, lines, mutations)
	})
}

func (d *pythonDiscoverer) walk(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if pythonSkips(node, source) {
		return
	}

	switch node.Type() {
	case "comparison_operator":
		d.comparisons(node, source, lines, mutations)
	case "boolean_operator":
		d.connectives(node, source, lines, mutations)
	case "not_operator":
		d.negation(node, source, lines, mutations)
	case "binary_operator":
		d.arithmetic(node, source, lines, mutations)
	case "return_statement":
		d.returns(node, source, lines, mutations)
	case "true", "false":
		d.booleans(node, source, lines, mutations)
	case "if_statement":
		d.ifBody(node, source, lines, mutations)
	}

	eachChild(node, func(child *sitter.Node) {
		d.walk(child, source, lines, mutations)
	})
}

// pythonSkips filters noise: logging and print calls, and expression
// statements that are a lone string literal (docstrings).
func pythonSkips(node *sitter.Node, source []byte) bool {
	if node.Type() == "call" {
		if fn := node.Child(0); fn != nil {
			text := fn.Content(source)
			switch text {
			case "print", "logging.info", "logging.debug", "logging.warning", "logging.error":
				return true
			}

			if strings.HasPrefix(text, "log.") {
				return true
			}
		}
	}

	if node.Type() == "expression_statement" && node.ChildCount() == 1 {
		if child := node.Child(0); child != nil && child.Type() == "string" {
			return true
		}
	}

	return false
}

func (d *pythonDiscoverer) comparisons(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	eachChild(node, func(child *sitter.Node) {
		switch child.Type() {
		case "<", ">", "<=", ">=", "==", "!=", "is", "in", "is not", "not in":
		default:
			return
		}

		op := child.Content(source)
		for _, candidate := range mutagens.Comparison(m.LangPython, op) {
			*mutations = append(*mutations, mutationAt(child, child, lines, candidate.Operator, op, candidate.Replacement))
		}
	})
}

func (d *pythonDiscoverer) connectives(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	eachChild(node, func(child *sitter.Node) {
		if child.Type() != "and" && child.Type() != "or" {
			return
		}

		op := child.Content(source)
		for _, candidate := range mutagens.Logical(m.LangPython, op) {
			*mutations = append(*mutations, mutationAt(child, child, lines, candidate.Operator, op, candidate.Replacement))
		}
	})
}

// negation rewrites `not x` to the operand's own text, so the whole
// expression span is replaced rather than just the keyword removed.
func (d *pythonDiscoverer) negation(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	keyword := node.Child(0)
	if keyword == nil || keyword.Type() != "not" {
		return
	}

	operand := node.Child(1)
	if operand == nil {
		return
	}

	*mutations = append(*mutations, mutationAt(
		keyword, node, lines, m.OpNegateRemove, node.Content(source), operand.Content(source)))
}

func (d *pythonDiscoverer) arithmetic(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	eachChild(node, func(child *sitter.Node) {
		switch child.Type() {
		case "+", "-", "*", "/", "//", "%", "**":
		default:
			return
		}

		// String concatenation is not arithmetic.
		if child.Type() == "+" {
			if left := node.Child(0); left != nil {
				if left.Type() == "string" || left.Type() == "concatenated_string" {
					return
				}
			}
		}

		op := child.Content(source)
		for _, candidate := range mutagens.Arithmetic(m.LangPython, op) {
			*mutations = append(*mutations, mutationAt(child, child, lines, candidate.Operator, op, candidate.Replacement))
		}
	})
}

func (d *pythonDiscoverer) returns(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if node.ChildCount() < 2 {
		candidate, ok := mutagens.BareReturn(m.LangPython)
		if ok {
			*mutations = append(*mutations, mutationAt(
				node, node, lines, candidate.Operator, node.Content(source), candidate.Replacement))
		}

		return
	}

	expr := node.Child(1)
	if expr == nil {
		return
	}

	candidate, ok := mutagens.ReturnValue(m.LangPython, expr.Content(source))
	if !ok {
		return
	}

	*mutations = append(*mutations, mutationAt(
		node, node, lines, candidate.Operator, node.Content(source), candidate.Replacement))
}

func (d *pythonDiscoverer) booleans(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	// Literals inside a return are covered by the return rewrite.
	if parent := node.Parent(); parent != nil && parent.Type() == "return_statement" {
		return
	}

	text := node.Content(source)

	candidate, ok := mutagens.BooleanFlip(m.LangPython, text)
	if !ok {
		return
	}

	*mutations = append(*mutations, mutationAt(node, node, lines, candidate.Operator, text, candidate.Replacement))
}

// ifBody replaces the consequence block of an if statement with an indented
// pass.
func (d *pythonDiscoverer) ifBody(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child == nil || child.Type() != "block" {
			continue
		}

		text := child.Content(source)
		if strings.TrimSpace(text) == "pass" {
			continue
		}

		indent := strings.Repeat(" ", int(child.StartPoint().Column))
		replacement := "\n" + indent + "pass"

		*mutations = append(*mutations, mutationAt(child, child, lines, m.OpBlockRemove, text, replacement))

		break
	}
}
