package model

import "strings"

// Identifier prefixes used in every emitted record.
const (
	TypePrefix   = "t:"
	FieldPrefix  = "f:"
	MethodPrefix = "m:"
)

// TypeID returns the canonical identifier for a type (e.g., "t:com.acme.OrderService").
func TypeID(fqcn string) string {
	return TypePrefix + fqcn
}

// FieldID returns the identifier of a field on ownerFqcn (e.g., "f:com.acme.Foo#repo").
func FieldID(ownerFqcn, fieldName string) string {
	return FieldPrefix + ownerFqcn + "#" + fieldName
}

// MethodID returns the identifier of a method on ownerFqcn.
// signature is the synthesized form produced by MethodSignature.
func MethodID(ownerFqcn, signature string) string {
	return MethodPrefix + ownerFqcn + "#" + signature
}

// MemberID returns the field or method identifier depending on kind.
func MemberID(kind MemberKind, ownerFqcn, member string) string {
	if kind == MemberField {
		return FieldID(ownerFqcn, member)
	}
	return MethodID(ownerFqcn, member)
}

// MethodSignature builds "name(T1,T2)" from already-raw parameter type names.
// It identifies a method in output; it is not meant to compile.
func MethodSignature(name string, paramTypes []string) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, t := range paramTypes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(NormalizeTypeName(t))
	}
	sb.WriteByte(')')
	return sb.String()
}

// NormalizeTypeName strips generic arguments (including nested ones),
// trailing array brackets and a trailing varargs ellipsis.
//
//	"Map<String, List<Foo>>" -> "Map"
//	"Foo[][]"                -> "Foo"
//	"Object..."              -> "Object"
func NormalizeTypeName(typeName string) string {
	raw := strings.TrimSpace(typeName)
	if raw == "" {
		return raw
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	depth := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '<':
			depth++
		case c == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteByte(c)
		}
	}

	normalized := strings.TrimSpace(sb.String())
	for strings.HasSuffix(normalized, "[]") {
		normalized = strings.TrimSpace(strings.TrimSuffix(normalized, "[]"))
	}
	if strings.HasSuffix(normalized, "...") {
		normalized = strings.TrimSpace(strings.TrimSuffix(normalized, "..."))
	}
	return normalized
}

// SimpleName returns the last dotted segment of a qualified name.
func SimpleName(fqcn string) string {
	if i := strings.LastIndexByte(fqcn, '.'); i >= 0 {
		return fqcn[i+1:]
	}
	return fqcn
}

// IsQualified reports whether name contains a package separator.
func IsQualified(name string) bool {
	return strings.IndexByte(name, '.') >= 0
}

var primitives = map[string]bool{
	"boolean": true,
	"byte":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"char":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// IsPrimitive reports whether name is a Java primitive or void.
func IsPrimitive(name string) bool {
	return primitives[name]
}
