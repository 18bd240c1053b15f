// Package javasrc turns Java source text into the small, fixed syntax shape the
// scanner consumes: package, imports, and nested type declarations with their
// annotations, supertypes, fields and methods.
//
// Everything the scanner needs is expressed by these types, so any parser that
// can fill them in can replace the tree-sitter implementation.
package javasrc

import "context"

// Parser produces a CompilationUnit from one file's source.
type Parser interface {
	// Parse parses source read from path. It returns an error wrapping
	// ErrSyntax when no usable tree could be built.
	Parse(ctx context.Context, path string, source []byte) (*CompilationUnit, error)
}

// DeclKind is the flavour of a type declaration.
type DeclKind string

const (
	DeclClass      DeclKind = "class"
	DeclInterface  DeclKind = "interface"
	DeclEnum       DeclKind = "enum"
	DeclRecord     DeclKind = "record"
	DeclAnnotation DeclKind = "annotation"
)

// CompilationUnit is the parsed form of one source file.
type CompilationUnit struct {
	Path        string
	Package     string // empty for the default package
	Imports     []Import
	Types       []TypeDecl // top-level declarations; nested ones hang off TypeDecl.Nested
	Diagnostics []Diagnostic
}

// Import is a single import declaration.
type Import struct {
	Name     string // dotted name without the trailing ".*"
	Static   bool
	Wildcard bool
}

// TypeDecl is a class, interface, enum, record or annotation type declaration.
type TypeDecl struct {
	Name string
	// QualifiedName is set when the parser knows the declaration's full name.
	// When empty, callers synthesize it from the package and enclosing types.
	QualifiedName string
	Kind          DeclKind
	Annotations   []string // as written, possibly qualified ("javax.ejb.Stateless")
	Implements    []string // as written
	Extends       []string // as written
	Fields        []FieldDecl
	Methods       []MethodDecl
	Nested        []TypeDecl
	Line          int
}

// IsInterface reports whether the declaration is an interface.
func (d *TypeDecl) IsInterface() bool {
	return d.Kind == DeclInterface
}

// FieldDecl is one field declaration, possibly declaring several variables.
type FieldDecl struct {
	Annotations []string
	Type        string // element type as written
	Names       []string
	Line        int
}

// MethodDecl is a method declaration. Constructors are not included.
type MethodDecl struct {
	Name        string
	Annotations []string
	Params      []Param
	Line        int
}

// Param is a formal parameter. Varargs parameters keep the "..." suffix in Type.
type Param struct {
	Type string
	Name string
}

// Diagnostic is a recoverable syntax problem reported while parsing.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}
