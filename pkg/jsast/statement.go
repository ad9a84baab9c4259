package jsast

import (
	"unicode/utf16"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/aliasguard/pkg/safeconv"
)

// Kind is the closed set of syntax node kinds handed to rules.
type Kind int

const (
	// KindImportDeclaration is a static `import ... from "x"` or `import "x"`.
	KindImportDeclaration Kind = iota + 1
	// KindCallExpression is any call expression, including dynamic `import(...)`.
	KindCallExpression
)

// String returns the ESTree name of the node kind.
func (k Kind) String() string {
	switch k {
	case KindImportDeclaration:
		return "ImportDeclaration"
	case KindCallExpression:
		return "CallExpression"
	default:
		return "Unknown"
	}
}

// Callee classifies the function part of a call expression.
type Callee int

const (
	// CalleeOther is any callee that is not a dynamic import or require.
	CalleeOther Callee = iota
	// CalleeImport is the dynamic `import(...)` form.
	CalleeImport
	// CalleeRequire is a call through the identifier `require`.
	CalleeRequire
)

// Tree-sitter node type names shared by the javascript, typescript and tsx grammars.
const (
	nodeImportStatement = "import_statement"
	nodeCallExpression  = "call_expression"
	nodeArguments       = "arguments"
	nodeImport          = "import"
	nodeIdentifier      = "identifier"
	nodeString          = "string"
	nodeComment         = "comment"
	nodeParenthesized   = "parenthesized_expression"

	fieldSource    = "source"
	fieldFunction  = "function"
	fieldArguments = "arguments"

	requireIdent = "require"
)

// Position is a 1-based line and column plus a 0-based byte offset. Columns
// count UTF-16 code units, as JavaScript tooling and SARIF do.
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

// Span is the source range of a node.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end"   yaml:"end"`
}

// Literal is a string literal with its decoded value.
type Literal struct {
	Value string
	Span  Span
}

// Statement is an import declaration or call expression.
// Source is the import source or the first call argument, and is nil
// when that node is absent or not a string literal.
type Statement struct {
	Kind   Kind
	Callee Callee
	Source *Literal
	Span   Span
}

// Statements calls fn for every import declaration and call expression in
// the tree, in source order.
func (t *Tree) Statements(fn func(Statement)) {
	if t.tree == nil {
		return
	}

	stack := []sitter.Node{t.tree.RootNode()}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.IsNull() {
			continue
		}

		if stmt, ok := t.statement(current); ok {
			fn(stmt)
		}

		// Push in reverse so children pop in source order.
		count := current.NamedChildCount()
		for idx := count; idx > 0; idx-- {
			stack = append(stack, current.NamedChild(idx-1))
		}
	}
}

// Collect returns all statements of the tree in source order.
func (t *Tree) Collect() []Statement {
	var stmts []Statement

	t.Statements(func(stmt Statement) {
		stmts = append(stmts, stmt)
	})

	return stmts
}

func (t *Tree) statement(n sitter.Node) (Statement, bool) {
	switch n.Type() {
	case nodeImportStatement:
		return Statement{
			Kind:   KindImportDeclaration,
			Source: t.literal(n.ChildByFieldName(fieldSource)),
			Span:   t.span(n),
		}, true
	case nodeCallExpression:
		args := n.ChildByFieldName(fieldArguments)
		// Tagged templates share the call_expression node but are not calls.
		if args.IsNull() || args.Type() != nodeArguments {
			return Statement{}, false
		}

		return Statement{
			Kind:   KindCallExpression,
			Callee: t.callee(n.ChildByFieldName(fieldFunction)),
			Source: t.literal(firstNamed(args)),
			Span:   t.span(n),
		}, true
	default:
		return Statement{}, false
	}
}

func (t *Tree) callee(fn sitter.Node) Callee {
	fn = unwrapParens(fn)
	if fn.IsNull() {
		return CalleeOther
	}

	switch fn.Type() {
	case nodeImport:
		return CalleeImport
	case nodeIdentifier:
		if t.text(fn) == requireIdent {
			return CalleeRequire
		}
	}

	return CalleeOther
}

// firstNamed returns the first named child of n that is not a comment.
func firstNamed(n sitter.Node) sitter.Node {
	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if child.Type() != nodeComment {
			return child
		}
	}

	return sitter.Node{}
}

// unwrapParens strips grouping parentheses, which ESTree does not represent.
func unwrapParens(n sitter.Node) sitter.Node {
	for !n.IsNull() && n.Type() == nodeParenthesized {
		n = firstNamed(n)
	}

	return n
}

func (t *Tree) literal(n sitter.Node) *Literal {
	n = unwrapParens(n)
	if n.IsNull() || n.Type() != nodeString {
		return nil
	}

	raw := t.text(n)

	value, ok := decodeString(raw)
	if !ok {
		return nil
	}

	return &Literal{Value: value, Span: t.span(n)}
}

func (t *Tree) text(n sitter.Node) string {
	start := safeconv.MustUintToInt(n.StartByte())
	end := safeconv.MustUintToInt(n.EndByte())

	if start > end || end > len(t.source) {
		return ""
	}

	return string(t.source[start:end])
}

func (t *Tree) span(n sitter.Node) Span {
	start := n.StartPoint()
	end := n.EndPoint()

	return Span{
		Start: t.position(start.Row, start.Column, n.StartByte()),
		End:   t.position(end.Row, end.Column, n.EndByte()),
	}
}

// position converts a tree-sitter point, whose column counts bytes, to a
// Position with a UTF-16 column.
func (t *Tree) position(row, byteColumn, byteOffset uint) Position {
	offset := safeconv.MustUintToInt(byteOffset)
	column := safeconv.MustUintToInt(byteColumn)

	lineStart := offset - column
	if lineStart >= 0 && offset <= len(t.source) {
		column = UTF16Len(string(t.source[lineStart:offset]))
	}

	return Position{
		Line:   safeconv.MustUintToInt(row) + 1,
		Column: column + 1,
		Offset: offset,
	}
}

// UTF16Len returns the length of s in UTF-16 code units. Invalid bytes count
// as one unit each.
func UTF16Len(s string) int {
	n := 0

	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}

	return n
}
