// Package symbols holds the repository-wide registry of declared type names.
//
// Registration and lookup are separate types: a Builder collects every fqcn
// seen during scanning, and Freeze turns it into a read-only Table that
// answers resolution queries. Short-name uniqueness is a whole-repository
// property, so no lookups are possible before every file has been registered.
package symbols

import (
	"errors"

	"github.com/mvp-joe/beangraph/internal/model"
)

// ErrFrozen is returned when registering into a Builder that was already frozen.
var ErrFrozen = errors.New("symbol table already frozen")

// Builder collects type names during scanning.
type Builder struct {
	fqcns       map[string]bool
	shortCounts map[string]int
	frozen      bool
}

// NewBuilder creates an empty symbol table builder.
func NewBuilder() *Builder {
	return &Builder{
		fqcns:       make(map[string]bool),
		shortCounts: make(map[string]int),
	}
}

// Register records a declared fqcn. Registering the same fqcn twice counts
// its short name twice, making that short name ambiguous.
func (b *Builder) Register(fqcn string) error {
	if b.frozen {
		return ErrFrozen
	}
	b.fqcns[fqcn] = true
	b.shortCounts[model.SimpleName(fqcn)]++
	return nil
}

// Freeze builds the read-only Table. The builder rejects any further registration.
func (b *Builder) Freeze() *Table {
	b.frozen = true

	unique := make(map[string]string)
	for fqcn := range b.fqcns {
		short := model.SimpleName(fqcn)
		if b.shortCounts[short] == 1 {
			unique[short] = fqcn
		}
	}

	return &Table{
		fqcns:  b.fqcns,
		unique: unique,
	}
}

// Table answers type-name resolution queries. It is safe for concurrent reads.
type Table struct {
	fqcns  map[string]bool
	unique map[string]string // short name -> fqcn, only for names declared exactly once
}

// Resolve maps a raw type name, as written in pkg, to an fqcn.
//
// Resolution order:
//  1. a dotted name is returned unchanged (it is not checked against known types);
//  2. pkg + "." + name, if declared;
//  3. the only declared type with that short name;
//  4. otherwise unresolved.
func (t *Table) Resolve(rawName, pkg string) (string, bool) {
	name := model.NormalizeTypeName(rawName)
	if name == "" {
		return "", false
	}

	if model.IsQualified(name) {
		return name, true
	}

	if pkg != "" {
		if candidate := pkg + "." + name; t.fqcns[candidate] {
			return candidate, true
		}
	}

	if fqcn, ok := t.unique[name]; ok {
		return fqcn, true
	}

	return "", false
}

// TypeID returns the identifier for a raw type name. Unresolvable names get a
// placeholder built from the normalized name, so every reference has an id.
func (t *Table) TypeID(rawName, pkg string) string {
	if fqcn, ok := t.Resolve(rawName, pkg); ok {
		return model.TypeID(fqcn)
	}
	return model.TypeID(model.NormalizeTypeName(rawName))
}

// IsKnown reports whether fqcn was registered. Resolve passes dotted names
// through unchecked, so this separates scanned types from external ones.
func (t *Table) IsKnown(fqcn string) bool {
	return t.fqcns[fqcn]
}
