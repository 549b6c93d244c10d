package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect identifies the grammar used for a file
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx"
)

// DialectForFile selects the grammar from the file extension.
// JSX in .js/.jsx files is covered by the JavaScript grammar.
func DialectForFile(filename string) Dialect {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".tsx":
		return DialectTSX
	default:
		return DialectJavaScript
	}
}

// Parser wraps tree-sitter parser for JavaScript/TypeScript
type Parser struct {
	parser  *sitter.Parser
	dialect Dialect
}

// NewParser creates a new JavaScript parser
func NewParser() *Parser {
	return newParser(DialectJavaScript, javascript.GetLanguage())
}

// NewTypeScriptParser creates a new TypeScript parser
func NewTypeScriptParser() *Parser {
	return newParser(DialectTypeScript, typescript.GetLanguage())
}

// NewTSXParser creates a new TypeScript parser with JSX support
func NewTSXParser() *Parser {
	return newParser(DialectTSX, tsx.GetLanguage())
}

// NewParserForFile creates a parser for the grammar matching filename
func NewParserForFile(filename string) *Parser {
	switch DialectForFile(filename) {
	case DialectTypeScript:
		return NewTypeScriptParser()
	case DialectTSX:
		return NewTSXParser()
	default:
		return NewParser()
	}
}

func newParser(dialect Dialect, lang *sitter.Language) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Parser{parser: p, dialect: dialect}
}

// Dialect returns the grammar this parser is configured for
func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// Extract parses source and returns its module facts. A file containing
// syntax errors yields a *SyntaxError and no facts.
func (p *Parser) Extract(ctx context.Context, filename string, source []byte) (*ModuleFacts, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}
	if root.HasError() {
		return nil, newSyntaxError(filename, root)
	}

	return newExtractor(source).extract(root), nil
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ExtractFile parses a file with the grammar selected from its extension.
// Parsers are not safe for concurrent use, so each call owns its parser.
func ExtractFile(ctx context.Context, filename string, source []byte) (*ModuleFacts, error) {
	p := NewParserForFile(filename)
	defer p.Close()
	return p.Extract(ctx, filename, source)
}

// SyntaxError reports the first error node of a parse tree
type SyntaxError struct {
	File   string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s at line %d, column %d", e.File, e.Line, e.Column)
}

func newSyntaxError(filename string, root *sitter.Node) *SyntaxError {
	se := &SyntaxError{File: filename, Line: 1, Column: 1}
	if bad := firstErrorNode(root); bad != nil {
		pt := bad.StartPoint()
		se.Line = int(pt.Row) + 1
		se.Column = int(pt.Column) + 1
	}
	return se
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	stack := []*sitter.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type() == "ERROR" || cur.IsMissing() {
			return cur
		}
		if !cur.HasError() {
			continue
		}
		// push in reverse so the leftmost child is visited first
		for i := int(cur.ChildCount()) - 1; i >= 0; i-- {
			if child := cur.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return nil
}
