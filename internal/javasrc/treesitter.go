package javasrc

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// bodyKinds are node kinds whose contents are executable code. Syntax errors
// inside them do not affect the structural outline of the file.
var bodyKinds = map[string]bool{
	"block":            true,
	"constructor_body": true,
}

// treeSitterParser parses Java using the tree-sitter Java grammar.
type treeSitterParser struct {
	language *sitter.Language
}

// NewParser creates a tree-sitter backed Java parser. It is safe for
// concurrent use; each Parse call owns its own tree-sitter parser.
func NewParser() Parser {
	return &treeSitterParser{
		language: sitter.NewLanguage(java.Language()),
	}
}

// Parse parses a Java source file into a CompilationUnit.
func (p *treeSitterParser) Parse(ctx context.Context, path string, source []byte) (*CompilationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set java language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s: parser returned no tree", ErrSyntax, path)
	}
	defer tree.Close()

	root := tree.RootNode()

	unit := &CompilationUnit{Path: path}
	if root.HasError() {
		diags, fatal := collectDiagnostics(root)
		if fatal != nil {
			return nil, fmt.Errorf("%w: %s: %s at line %d:%d",
				ErrSyntax, path, fatal.Message, fatal.Line, fatal.Column)
		}
		unit.Diagnostics = diags
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		switch child.Kind() {
		case "package_declaration":
			unit.Package = packageName(child, source)
		case "import_declaration":
			unit.Imports = append(unit.Imports, importDecl(child, source))
		default:
			if decl, ok := typeDecl(child, source); ok {
				unit.Types = append(unit.Types, decl)
			}
		}
	}

	return unit, nil
}

// collectDiagnostics walks the tree looking for error and missing nodes.
// Problems inside executable bodies become diagnostics; the first problem in
// a structural position is returned as fatal.
func collectDiagnostics(root *sitter.Node) ([]Diagnostic, *Diagnostic) {
	var diags []Diagnostic
	var fatal *Diagnostic

	var walk func(n *sitter.Node, inBody bool)
	walk = func(n *sitter.Node, inBody bool) {
		if n == nil || fatal != nil {
			return
		}
		if n.IsError() || n.IsMissing() {
			d := Diagnostic{
				Line:    int(n.StartPosition().Row) + 1,
				Column:  int(n.StartPosition().Column) + 1,
				Message: "syntax error",
			}
			if n.IsMissing() {
				d.Message = "missing " + n.Kind()
			}
			if !inBody {
				fatal = &d
				return
			}
			diags = append(diags, d)
		}
		if !n.HasError() {
			return
		}
		childInBody := inBody || bodyKinds[n.Kind()]
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)), childInBody)
		}
	}
	walk(root, false)

	return diags, fatal
}

// packageName extracts the dotted name of a package declaration.
func packageName(node *sitter.Node, source []byte) string {
	nameNode := findChildByType(node, "scoped_identifier")
	if nameNode == nil {
		nameNode = findChildByType(node, "identifier")
	}
	return extractNodeText(nameNode, source)
}

// importDecl extracts a single import declaration.
func importDecl(node *sitter.Node, source []byte) Import {
	imp := Import{}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "static":
			imp.Static = true
		case "asterisk":
			imp.Wildcard = true
		case "identifier", "scoped_identifier":
			imp.Name = extractNodeText(child, source)
		}
	}
	return imp
}

var declKinds = map[string]DeclKind{
	"class_declaration":           DeclClass,
	"interface_declaration":       DeclInterface,
	"enum_declaration":            DeclEnum,
	"record_declaration":          DeclRecord,
	"annotation_type_declaration": DeclAnnotation,
}

// typeDecl converts a type declaration node, including everything nested in it.
func typeDecl(node *sitter.Node, source []byte) (TypeDecl, bool) {
	kind, ok := declKinds[node.Kind()]
	if !ok {
		return TypeDecl{}, false
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return TypeDecl{}, false
	}

	decl := TypeDecl{
		Name:        extractNodeText(nameNode, source),
		Kind:        kind,
		Annotations: annotations(findChildByType(node, "modifiers"), source),
		Line:        int(node.StartPosition().Row) + 1,
	}

	if sc := node.ChildByFieldName("superclass"); sc != nil {
		decl.Extends = append(decl.Extends, typeList(sc, source)...)
	}
	if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
		decl.Implements = append(decl.Implements, typeList(ifaces, source)...)
	}
	if ext := findChildByType(node, "extends_interfaces"); ext != nil {
		decl.Extends = append(decl.Extends, typeList(ext, source)...)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		collectMembers(body, source, &decl)
	}

	return decl, true
}

// collectMembers walks a type body and fills in fields, methods and nested types.
func collectMembers(body *sitter.Node, source []byte, decl *TypeDecl) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "field_declaration", "constant_declaration":
			decl.Fields = append(decl.Fields, fieldDecl(child, source))
		case "method_declaration":
			if m, ok := methodDecl(child, source); ok {
				decl.Methods = append(decl.Methods, m)
			}
		case "enum_body_declarations":
			collectMembers(child, source, decl)
		default:
			if nested, ok := typeDecl(child, source); ok {
				decl.Nested = append(decl.Nested, nested)
			}
		}
	}
}

func fieldDecl(node *sitter.Node, source []byte) FieldDecl {
	f := FieldDecl{
		Annotations: annotations(findChildByType(node, "modifiers"), source),
		Type:        extractNodeText(node.ChildByFieldName("type"), source),
		Line:        int(node.StartPosition().Row) + 1,
	}
	for _, d := range findChildrenByType(node, "variable_declarator") {
		if name := d.ChildByFieldName("name"); name != nil {
			f.Names = append(f.Names, extractNodeText(name, source))
		}
	}
	return f
}

func methodDecl(node *sitter.Node, source []byte) (MethodDecl, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return MethodDecl{}, false
	}
	m := MethodDecl{
		Name:        extractNodeText(nameNode, source),
		Annotations: annotations(findChildByType(node, "modifiers"), source),
		Line:        int(node.StartPosition().Row) + 1,
	}

	params := node.ChildByFieldName("parameters")
	if params == nil {
		return m, true
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(uint(i))
		switch child.Kind() {
		case "formal_parameter":
			m.Params = append(m.Params, Param{
				Type: extractNodeText(child.ChildByFieldName("type"), source),
				Name: extractNodeText(child.ChildByFieldName("name"), source),
			})
		case "spread_parameter":
			m.Params = append(m.Params, spreadParam(child, source))
		}
	}
	return m, true
}

// spreadParam converts a varargs parameter. The grammar exposes no fields
// here, so the element type is the first type-like named child.
func spreadParam(node *sitter.Node, source []byte) Param {
	p := Param{}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		switch child.Kind() {
		case "modifiers":
			continue
		case "variable_declarator":
			p.Name = extractNodeText(child.ChildByFieldName("name"), source)
		default:
			if p.Type == "" {
				p.Type = extractNodeText(child, source) + "..."
			}
		}
	}
	return p
}

// annotations returns the names of all annotations in a modifiers node.
func annotations(modifiers *sitter.Node, source []byte) []string {
	if modifiers == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(uint(i))
		if child.Kind() != "marker_annotation" && child.Kind() != "annotation" {
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil {
			names = append(names, extractNodeText(name, source))
		}
	}
	return names
}

// typeList returns the type names under a superclass, super_interfaces or
// extends_interfaces node, skipping keywords and punctuation.
func typeList(node *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child.Kind() == "type_list" {
			out = append(out, typeList(child, source)...)
			continue
		}
		out = append(out, extractNodeText(child, source))
	}
	return out
}
