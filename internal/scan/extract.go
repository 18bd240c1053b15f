package scan

import (
	"strings"

	"github.com/mvp-joe/beangraph/internal/javasrc"
	"github.com/mvp-joe/beangraph/internal/model"
)

// Annotation short names recognized by the extractor. Matching ignores the
// package qualifier, so "javax.ejb.EJB" and "jakarta.ejb.EJB" are both "EJB".
const (
	annoLocal              = "Local"
	annoRemote             = "Remote"
	annoEJB                = "EJB"
	annoInject             = "Inject"
	annoPersistenceContext = "PersistenceContext"
)

// Extract converts a parsed compilation unit into scanned types and injection
// edges. relPath is recorded as the file of every type.
func Extract(unit *javasrc.CompilationUnit, relPath string) ([]ScannedType, []ScannedInjection) {
	x := &extractor{
		pkg:     unit.Package,
		imports: unit.Imports,
		file:    relPath,
	}
	for i := range unit.Types {
		x.visit(&unit.Types[i], nil)
	}
	return x.types, x.injections
}

type extractor struct {
	pkg     string
	imports []javasrc.Import
	file    string

	types      []ScannedType
	injections []ScannedInjection
}

// visit records decl (when it is a class or interface) and then its nested types.
// enclosing holds the simple names of the outer declarations, outermost first.
func (x *extractor) visit(decl *javasrc.TypeDecl, enclosing []string) {
	path := append(append([]string(nil), enclosing...), decl.Name)

	if decl.Kind == javasrc.DeclClass || decl.Kind == javasrc.DeclInterface {
		x.types = append(x.types, x.scanType(decl, path))
	}

	for i := range decl.Nested {
		x.visit(&decl.Nested[i], path)
	}
}

func (x *extractor) scanType(decl *javasrc.TypeDecl, path []string) ScannedType {
	fqcn := decl.QualifiedName
	if fqcn == "" {
		fqcn = strings.Join(path, ".")
		if x.pkg != "" {
			fqcn = x.pkg + "." + fqcn
		}
	}

	isInterface := decl.IsInterface()
	st := ScannedType{
		FQCN:          fqcn,
		Package:       x.pkg,
		File:          x.file,
		Interface:     isInterface,
		ImplementsRaw: normalizeAll(decl.Implements),
		ExtendsRaw:    normalizeAll(decl.Extends),
	}

	if isInterface {
		st.Local = hasAnnotation(decl.Annotations, annoLocal)
		st.Remote = hasAnnotation(decl.Annotations, annoRemote)
	} else {
		st.Lifecycle = lifecycle(decl.Annotations)
	}

	// Field injection: one edge per declared variable.
	for _, f := range decl.Fields {
		via, ok := mechanism(f.Annotations)
		if !ok {
			continue
		}
		typeRaw := x.resolveImportedType(model.NormalizeTypeName(f.Type))
		for _, name := range f.Names {
			st.InjectedFields = append(st.InjectedFields, InjectedField{
				Name:    name,
				TypeRaw: typeRaw,
				Via:     via,
			})
			x.injections = append(x.injections, ScannedInjection{
				OwnerFQCN:    fqcn,
				OwnerPackage: x.pkg,
				MemberKind:   model.MemberField,
				Member:       name,
				TypeRaw:      typeRaw,
				Via:          via,
			})
		}
	}

	// Method injection: one edge per parameter, all sharing the method signature.
	for _, m := range decl.Methods {
		via, ok := mechanism(m.Annotations)
		if !ok || len(m.Params) == 0 {
			continue
		}
		paramTypes := make([]string, len(m.Params))
		for i, p := range m.Params {
			paramTypes[i] = p.Type
		}
		sig := model.MethodSignature(m.Name, paramTypes)
		for _, p := range m.Params {
			x.injections = append(x.injections, ScannedInjection{
				OwnerFQCN:    fqcn,
				OwnerPackage: x.pkg,
				MemberKind:   model.MemberMethod,
				Member:       sig,
				TypeRaw:      x.resolveImportedType(model.NormalizeTypeName(p.Type)),
				Via:          via,
			})
		}
	}

	return st
}

// resolveImportedType rewrites a bare type name to the fqcn of a matching
// single-type import. Static and wildcard imports are never used.
func (x *extractor) resolveImportedType(typeName string) string {
	if typeName == "" || model.IsQualified(typeName) || model.IsPrimitive(typeName) {
		return typeName
	}
	for _, imp := range x.imports {
		if imp.Static || imp.Wildcard {
			continue
		}
		if model.SimpleName(imp.Name) == typeName {
			return imp.Name
		}
	}
	return typeName
}

// mechanism returns the injection mechanism of a member. EJB wins over CDI,
// and CDI wins over persistence context.
func mechanism(annotations []string) (model.Mechanism, bool) {
	switch {
	case hasAnnotation(annotations, annoEJB):
		return model.MechanismEJB, true
	case hasAnnotation(annotations, annoInject):
		return model.MechanismCDI, true
	case hasAnnotation(annotations, annoPersistenceContext):
		return model.MechanismJPA, true
	}
	return "", false
}

// lifecycle returns the first of Stateless, Stateful, Singleton present.
func lifecycle(annotations []string) model.Lifecycle {
	for _, name := range []string{"Stateless", "Stateful", "Singleton"} {
		if hasAnnotation(annotations, name) {
			return model.LifecycleFromAnnotation(name)
		}
	}
	return model.LifecycleNone
}

func hasAnnotation(annotations []string, simpleName string) bool {
	for _, a := range annotations {
		if model.SimpleName(a) == simpleName {
			return true
		}
	}
	return false
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, model.NormalizeTypeName(n))
	}
	return out
}
