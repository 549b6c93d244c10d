package parser

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/fsdscan/domain"
)

// ImportRef is one module specifier found in a file
type ImportRef struct {
	Specifier string
	Kind      domain.EdgeKind
	TypeOnly  bool
	Line      int
}

// ModuleFacts is everything the auditor needs from a parsed file
type ModuleFacts struct {
	Imports []ImportRef

	// Exports are exported symbol names, "default" for default exports
	Exports []string

	// JSXExports are the exports whose declaration renders JSX
	JSXExports []string

	HasJSX     bool
	CallsFetch bool
}

// HasJSXExport reports whether at least one export returns JSX
func (f *ModuleFacts) HasJSXExport() bool {
	return len(f.JSXExports) > 0
}

// extractor walks a tree-sitter CST once and collects module facts
type extractor struct {
	source []byte
	facts  *ModuleFacts

	// top-level declaration name -> declaration contains JSX
	decls   map[string]bool
	exports map[string]bool
	jsx     map[string]bool
	// local names exported later through export { a as b } or export default a
	exportedLocals map[string][]string
}

func newExtractor(source []byte) *extractor {
	return &extractor{
		source:         source,
		facts:          &ModuleFacts{},
		decls:          make(map[string]bool),
		exports:        make(map[string]bool),
		jsx:            make(map[string]bool),
		exportedLocals: make(map[string][]string),
	}
}

func (e *extractor) extract(root *sitter.Node) *ModuleFacts {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "import_statement":
			e.importStatement(child)
		case "export_statement":
			e.exportStatement(child)
		case "expression_statement":
			e.commonJSExport(child)
		default:
			e.declaration(child)
		}
	}

	e.walkCalls(root)

	// exports declared before or after the local declaration they name
	for local, names := range e.exportedLocals {
		if e.decls[local] {
			for _, name := range names {
				e.jsx[name] = true
			}
		}
	}

	e.facts.Exports = sortedKeys(e.exports)
	e.facts.JSXExports = sortedKeys(e.jsx)
	return e.facts
}

func (e *extractor) importStatement(n *sitter.Node) {
	typeOnly := hasAnonymousChild(n, "type")

	if source := n.ChildByFieldName("source"); source != nil {
		if spec, ok := e.stringLiteral(source); ok {
			e.addImport(spec, domain.EdgeKindImport, typeOnly, n)
		}
		return
	}

	// import x = require('y')
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Type() == "import_require_clause" {
			if source := child.ChildByFieldName("source"); source != nil {
				if spec, ok := e.stringLiteral(source); ok {
					e.addImport(spec, domain.EdgeKindRequire, typeOnly, n)
				}
			}
		}
	}
}

func (e *extractor) exportStatement(n *sitter.Node) {
	hasDefault := hasAnonymousChild(n, "default")
	typeOnly := hasAnonymousChild(n, "type")

	if source := n.ChildByFieldName("source"); source != nil {
		if spec, ok := e.stringLiteral(source); ok {
			e.addImport(spec, domain.EdgeKindReExport, typeOnly, n)
		}
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		names := e.declaration(decl)
		containsJSX := containsJSX(decl)
		if hasDefault && len(names) == 0 {
			names = []string{"default"}
		}
		for _, name := range names {
			if hasDefault {
				name = "default"
			}
			e.exports[name] = true
			if containsJSX {
				e.jsx[name] = true
			}
		}
	}

	if value := n.ChildByFieldName("value"); value != nil {
		e.exports["default"] = true
		if value.Type() == "identifier" {
			local := value.Content(e.source)
			e.exportedLocals[local] = append(e.exportedLocals[local], "default")
		} else if containsJSX(value) {
			e.jsx["default"] = true
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "export_clause":
			e.exportClause(child)
		case "namespace_export":
			// export * as ns from 'x'
			if id := lastIdentifier(child, e.source); id != "" {
				e.exports[id] = true
			}
		}
	}
}

func (e *extractor) exportClause(clause *sitter.Node) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec == nil || spec.Type() != "export_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		local := nameNode.Content(e.source)
		exported := local
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			exported = alias.Content(e.source)
		}
		e.exports[exported] = true
		e.exportedLocals[local] = append(e.exportedLocals[local], exported)
	}
}

// commonJSExport records module.exports = x and exports.name = x
func (e *extractor) commonJSExport(stmt *sitter.Node) {
	expr := stmt.NamedChild(0)
	if expr == nil || expr.Type() != "assignment_expression" {
		return
	}
	left := expr.ChildByFieldName("left")
	if left == nil || left.Type() != "member_expression" {
		return
	}
	target := left.Content(e.source)
	var name string
	switch {
	case target == "module.exports":
		name = "default"
	case strings.HasPrefix(target, "module.exports."):
		name = strings.TrimPrefix(target, "module.exports.")
	case strings.HasPrefix(target, "exports."):
		name = strings.TrimPrefix(target, "exports.")
	default:
		return
	}
	e.exports[name] = true
	if right := expr.ChildByFieldName("right"); right != nil && containsJSX(right) {
		e.jsx[name] = true
	}
}

// declaration records top-level declarations and returns the names it declares
func (e *extractor) declaration(n *sitter.Node) []string {
	var names []string
	switch n.Type() {
	case "function_declaration", "generator_function_declaration", "class_declaration",
		"abstract_class_declaration", "interface_declaration", "type_alias_declaration",
		"enum_declaration", "function_signature":
		if name := n.ChildByFieldName("name"); name != nil {
			names = append(names, name.Content(e.source))
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			d := n.NamedChild(i)
			if d == nil || d.Type() != "variable_declarator" {
				continue
			}
			if name := d.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				names = append(names, name.Content(e.source))
			}
		}
	}
	if len(names) > 0 {
		hasJSX := containsJSX(n)
		for _, name := range names {
			e.decls[name] = e.decls[name] || hasJSX
		}
	}
	return names
}

// walkCalls visits every node once for require(), import(), fetch() and JSX
func (e *extractor) walkCalls(root *sitter.Node) {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			e.facts.HasJSX = true
		case "call_expression":
			e.callExpression(n)
		}

		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			if child := n.NamedChild(i); child != nil {
				stack = append(stack, child)
			}
		}
	}
}

func (e *extractor) callExpression(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}

	var kind domain.EdgeKind
	switch {
	case fn.Type() == "import":
		kind = domain.EdgeKindDynamic
	case fn.Type() == "identifier" && fn.Content(e.source) == "require":
		kind = domain.EdgeKindRequire
	case fn.Type() == "identifier" && fn.Content(e.source) == "fetch":
		e.facts.CallsFetch = true
		return
	default:
		return
	}

	args := n.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	// only literal arguments; import(`./${x}`) cannot be resolved statically
	if spec, ok := e.stringLiteral(args.NamedChild(0)); ok {
		e.addImport(spec, kind, false, n)
	}
}

func (e *extractor) addImport(spec string, kind domain.EdgeKind, typeOnly bool, n *sitter.Node) {
	if spec == "" {
		return
	}
	e.facts.Imports = append(e.facts.Imports, ImportRef{
		Specifier: spec,
		Kind:      kind,
		TypeOnly:  typeOnly,
		Line:      int(n.StartPoint().Row) + 1,
	})
}

// stringLiteral returns the unquoted value of a string or substitution-free template
func (e *extractor) stringLiteral(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string":
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c != nil && c.Type() == "template_substitution" {
				return "", false
			}
		}
	default:
		return "", false
	}
	raw := n.Content(e.source)
	if len(raw) < 2 {
		return "", false
	}
	return raw[1 : len(raw)-1], true
}

func containsJSX(n *sitter.Node) bool {
	stack := []*sitter.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch cur.Type() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			return true
		}
		for i := 0; i < int(cur.NamedChildCount()); i++ {
			if child := cur.NamedChild(i); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return false
}

func hasAnonymousChild(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && !c.IsNamed() && c.Type() == typ {
			return true
		}
	}
	return false
}

func lastIdentifier(n *sitter.Node, source []byte) string {
	id := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c != nil && c.Type() == "identifier" {
			id = c.Content(source)
		}
	}
	return id
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
