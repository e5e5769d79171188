package domain

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"mutator.dev/pkg/mutator/internal/adapter"
	"mutator.dev/pkg/mutator/internal/domain/mutagens"
	m "mutator.dev/pkg/mutator/internal/model"
)

// jsDiscoverer covers JavaScript, TypeScript, and TSX. The three dialects
// share node kinds for everything the catalog touches, so one walker serves
// all of them with the grammar chosen per dialect.
type jsDiscoverer struct {
	grammars adapter.GrammarAdapter
	dialect  m.Language
}

func (d *jsDiscoverer) Discover(ctx context.Context, source []byte, functionName string) ([]m.Mutation, error) {
	tree, err := d.grammars.Parse(ctx, d.dialect, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	lines := sourceLines(source)

	var mutations []m.Mutation

	if functionName != "" {
		if fn := findJSFunction(tree.RootNode(), functionName, source); fn != nil {
			d.walk(fn, source, lines, &mutations)
		}

		return mutations, nil
	}

	d.collectFunctions(tree.RootNode(), source, lines, &mutations)

	return mutations, nil
}

func (d *jsDiscoverer) ListFunctions(ctx context.Context, source []byte) ([]string, error) {
	tree, err := d.grammars.Parse(ctx, d.dialect, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var names []string
	collectJSFunctionNames(tree.RootNode(), source, &names)

	return names, nil
}

func isJSFunctionValue(kind string) bool {
	return kind == "arrow_function" || kind == "function" || kind == "generator_function"
}

func findJSFunction(node *sitter.Node, name string, source []byte) *sitter.Node {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration", "method_definition":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil && nameNode.Content(source) == name {
			return node
		}
	case "lexical_declaration", "variable_declaration":
		if decl := jsFunctionDeclarator(node, source, name); decl != nil {
			return node
		}
	}

	return firstHit(node, func(child *sitter.Node) *sitter.Node {
		return findJSFunction(child, name, source)
	})
}

// jsFunctionDeclarator finds a `const name = fn` declarator inside a
// declaration node. An empty name matches any function-valued declarator.
func jsFunctionDeclarator(node *sitter.Node, source []byte, name string) *sitter.Node {
	return firstHit(node, func(child *sitter.Node) *sitter.Node {
		if child.Type() != "variable_declarator" {
			return nil
		}

		value := child.ChildByFieldName("value")
		if value == nil || !isJSFunctionValue(value.Type()) {
			return nil
		}

		if name != "" {
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil || nameNode.Content(source) != name {
				return nil
			}
		}

		return child
	})
}

func (d *jsDiscoverer) collectFunctions(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration", "method_definition":
		d.walk(node, source, lines, mutations)

		return
	case "lexical_declaration", "variable_declaration":
		if decl := jsFunctionDeclarator(node, source, ""); decl != nil {
			d.walk(decl.ChildByFieldName("value"), source, lines, mutations)

			return
		}
	}

	eachChild(node, func(child *sitter.Node) {
		d.collectFunctions(child, source, lines, mutations)
	})
}

func collectJSFunctionNames(node *sitter.Node, source []byte, names *[]string) {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name := nameNode.Content(source)
			if !strings.HasPrefix(name, "test") && !strings.HasPrefix(name, "_") {
				*names = append(*names, name)
			}
		}
	case "method_definition":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name := nameNode.Content(source)
			if !strings.HasPrefix(name, "test") && name != "constructor" {
				*names = append(*names, name)
			}
		}
	case "lexical_declaration", "variable_declaration":
		eachChild(node, func(child *sitter.Node) {
			if child.Type() != "variable_declarator" {
				return
			}

			value := child.ChildByFieldName("value")
			if value == nil || !isJSFunctionValue(value.Type()) {
				return
			}

			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				name := nameNode.Content(source)
				if !strings.HasPrefix(name, "test") && !strings.HasPrefix(name, "_") {
					*names = append(*names, name)
				}
			}
		})
	}

	eachChild(node, func(child *sitter.Node) {
		collectJSFunctionNames(child, source, names)
	})
}

func (d *jsDiscoverer) walk(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if jsSkips(node, source) {
		return
	}

	switch node.Type() {
	case "binary_expression":
		d.binary(node, source, lines, mutations)
	case "unary_expression":
		d.negation(node, source, lines, mutations)
	case "return_statement":
		d.returns(node, source, lines, mutations)
	case "true", "false":
		d.booleans(node, source, lines, mutations)
	case "if_statement":
		d.ifBody(node, source, lines, mutations)
	case "for_statement", "for_in_statement", "while_statement":
		d.loopBody(node, source, lines, mutations)
	}

	eachChild(node, func(child *sitter.Node) {
		d.walk(child, source, lines, mutations)
	})
}

// jsSkips filters console output calls and lone string statements such as
// "use strict" directives.
func jsSkips(node *sitter.Node, source []byte) bool {
	if node.Type() == "call_expression" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			switch fn.Content(source) {
			case "console.log", "console.warn", "console.error", "console.info", "console.debug":
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

func (d *jsDiscoverer) binary(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	opNode := node.ChildByFieldName("operator")
	if opNode == nil {
		return
	}

	op := opNode.Content(source)

	var candidates []mutagens.Candidate

	switch op {
	case ">", ">=", "<", "<=", "==", "!=", "===", "!==":
		candidates = mutagens.Comparison(d.dialect, op)
	case "&&", "||", "??":
		candidates = mutagens.Logical(d.dialect, op)
	case "+", "-", "*", "/", "%", "**":
		// String concatenation is not arithmetic.
		if op == "+" {
			if left := node.ChildByFieldName("left"); left != nil {
				if left.Type() == "string" || left.Type() == "template_string" {
					return
				}
			}
		}

		candidates = mutagens.Arithmetic(d.dialect, op)
	}

	for _, candidate := range candidates {
		*mutations = append(*mutations, mutationAt(opNode, opNode, lines, candidate.Operator, op, candidate.Replacement))
	}
}

func (d *jsDiscoverer) negation(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	opNode := node.ChildByFieldName("operator")
	if opNode == nil || opNode.Type() != "!" {
		return
	}

	operand := node.ChildByFieldName("argument")
	if operand == nil {
		return
	}

	*mutations = append(*mutations, mutationAt(
		opNode, node, lines, m.OpNegateRemove, node.Content(source), operand.Content(source)))
}

func (d *jsDiscoverer) returns(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	var expr *sitter.Node

	eachChild(node, func(child *sitter.Node) {
		if expr == nil && child.Type() != "return" && child.Type() != ";" {
			expr = child
		}
	})

	if expr == nil {
		candidate, ok := mutagens.BareReturn(d.dialect)
		if ok {
			*mutations = append(*mutations, mutationAt(
				node, node, lines, candidate.Operator, node.Content(source), candidate.Replacement))
		}

		return
	}

	candidate, ok := mutagens.ReturnValue(d.dialect, expr.Content(source))
	if !ok {
		return
	}

	*mutations = append(*mutations, mutationAt(
		node, node, lines, candidate.Operator, node.Content(source), candidate.Replacement))
}

func (d *jsDiscoverer) booleans(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if parent := node.Parent(); parent != nil && parent.Type() == "return_statement" {
		return
	}

	text := node.Content(source)

	candidate, ok := mutagens.BooleanFlip(d.dialect, text)
	if !ok {
		return
	}

	*mutations = append(*mutations, mutationAt(node, node, lines, candidate.Operator, text, candidate.Replacement))
}

func (d *jsDiscoverer) ifBody(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if consequence := node.ChildByFieldName("consequence"); consequence != nil && consequence.Type() == "statement_block" {
		d.blockRemove(consequence, source, lines, mutations)
	}

	alternative := node.ChildByFieldName("alternative")
	if alternative == nil || alternative.Type() != "else_clause" {
		return
	}

	// An else-if arm is a nested if_statement reached by the walk itself;
	// only plain else blocks are handled here.
	eachChild(alternative, func(child *sitter.Node) {
		if child.Type() == "statement_block" {
			d.blockRemove(child, source, lines, mutations)
		}
	})
}

func (d *jsDiscoverer) loopBody(node *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	if body := node.ChildByFieldName("body"); body != nil && body.Type() == "statement_block" {
		d.blockRemove(body, source, lines, mutations)
	}
}

func (d *jsDiscoverer) blockRemove(block *sitter.Node, source []byte, lines []string, mutations *[]m.Mutation) {
	text := block.Content(source)
	if strings.TrimSpace(text) == "{}" {
		return
	}

	*mutations = append(*mutations, mutationAt(block, block, lines, m.OpBlockRemove, text, "{}"))
}
