package scan

import (
	"testing"

	"github.com/mvp-joe/beangraph/internal/javasrc"
	"github.com/mvp-joe/beangraph/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Extract:
// - Nested types get package + enclosing names ("p.q.A.B")
// - A declared qualified name is used as-is
// - Enums contribute to nested names but are not emitted themselves
// - Local/Remote markers only count on interfaces
// - Lifecycle annotations only count on classes, in any qualified spelling
// - Supertype names are normalized (generics, arrays, varargs)
// - Field injection yields one edge per declared variable
// - Method injection yields one edge per parameter sharing one signature
// - Zero-parameter injected methods yield nothing
// - EJB beats Inject beats PersistenceContext
// - Bare types are expanded from single-type imports only, primitives never

func TestExtract_NestedNaming(t *testing.T) {
	t.Parallel()

	unit := &javasrc.CompilationUnit{
		Package: "p.q",
		Types: []javasrc.TypeDecl{{
			Name: "A",
			Kind: javasrc.DeclClass,
			Nested: []javasrc.TypeDecl{
				{Name: "B", Kind: javasrc.DeclClass},
				{Name: "E", Kind: javasrc.DeclEnum, Nested: []javasrc.TypeDecl{
					{Name: "H", Kind: javasrc.DeclInterface},
				}},
			},
		}},
	}

	types, _ := Extract(unit, "m/src/main/java/p/q/A.java")
	require.Len(t, types, 3)
	assert.Equal(t, "p.q.A", types[0].FQCN)
	assert.Equal(t, "p.q.A.B", types[1].FQCN)
	assert.Equal(t, "p.q.A.E.H", types[2].FQCN)
	assert.True(t, types[2].Interface)
	for _, st := range types {
		assert.Equal(t, "p.q", st.Package)
		assert.Equal(t, "m/src/main/java/p/q/A.java", st.File)
	}
}

func TestExtract_DefaultPackageAndQualifiedName(t *testing.T) {
	t.Parallel()

	unit := &javasrc.CompilationUnit{
		Types: []javasrc.TypeDecl{
			{Name: "Top", Kind: javasrc.DeclClass},
			{Name: "Given", QualifiedName: "x.y.Given", Kind: javasrc.DeclClass},
		},
	}

	types, _ := Extract(unit, "Top.java")
	require.Len(t, types, 2)
	assert.Equal(t, "Top", types[0].FQCN)
	assert.Equal(t, "x.y.Given", types[1].FQCN)
}

func TestExtract_MarkersAndLifecycle(t *testing.T) {
	t.Parallel()

	unit := &javasrc.CompilationUnit{
		Package: "p",
		Types: []javasrc.TypeDecl{
			{Name: "Api", Kind: javasrc.DeclInterface, Annotations: []string{"javax.ejb.Local", "Remote", "Stateless"}},
			{Name: "Bean", Kind: javasrc.DeclClass, Annotations: []string{"jakarta.ejb.Stateful", "Local"},
				Implements: []string{"Api", "Comparable<Bean>"}, Extends: []string{"Base<T>[]"}},
			{Name: "Plain", Kind: javasrc.DeclClass, Annotations: []string{"Singleton"}},
		},
	}

	types, _ := Extract(unit, "f")
	require.Len(t, types, 3)

	api := types[0]
	assert.True(t, api.Local)
	assert.True(t, api.Remote)
	assert.Equal(t, model.LifecycleNone, api.Lifecycle)
	assert.False(t, api.IsBean())

	bean := types[1]
	assert.False(t, bean.Local, "markers only apply to interfaces")
	assert.Equal(t, model.LifecycleStateful, bean.Lifecycle)
	assert.True(t, bean.IsBean())
	assert.Equal(t, []string{"Api", "Comparable"}, bean.ImplementsRaw)
	assert.Equal(t, []string{"Base"}, bean.ExtendsRaw)

	assert.Equal(t, model.LifecycleSingleton, types[2].Lifecycle)
}

func TestExtract_FieldInjection(t *testing.T) {
	t.Parallel()

	unit := &javasrc.CompilationUnit{
		Package: "p",
		Imports: []javasrc.Import{
			{Name: "com.acme.Repo"},
			{Name: "com.acme.util", Wildcard: true},
			{Name: "com.acme.Consts.Cache", Static: true},
		},
		Types: []javasrc.TypeDecl{{
			Name: "Svc",
			Kind: javasrc.DeclClass,
			Fields: []javasrc.FieldDecl{
				{Annotations: []string{"EJB"}, Type: "Repo", Names: []string{"a", "b"}},
				{Annotations: []string{"Inject", "EJB"}, Type: "List<Repo>", Names: []string{"all"}},
				{Annotations: []string{"javax.persistence.PersistenceContext"}, Type: "EntityManager", Names: []string{"em"}},
				{Annotations: []string{"Inject"}, Type: "Cache", Names: []string{"cache"}},
				{Annotations: []string{"Inject"}, Type: "int", Names: []string{"n"}},
				{Annotations: []string{"Deprecated"}, Type: "Repo", Names: []string{"ignored"}},
			},
		}},
	}

	types, injections := Extract(unit, "f")
	require.Len(t, types, 1)
	require.Len(t, injections, 6)

	assert.Equal(t, ScannedInjection{
		OwnerFQCN: "p.Svc", OwnerPackage: "p", MemberKind: model.MemberField,
		Member: "a", TypeRaw: "com.acme.Repo", Via: model.MechanismEJB,
	}, injections[0])
	assert.Equal(t, "b", injections[1].Member)
	assert.Equal(t, model.MechanismEJB, injections[1].Via)

	assert.Equal(t, "all", injections[2].Member)
	assert.Equal(t, "List", injections[2].TypeRaw)
	assert.Equal(t, model.MechanismEJB, injections[2].Via, "EJB wins over Inject")

	assert.Equal(t, model.MechanismJPA, injections[3].Via)
	assert.Equal(t, "EntityManager", injections[3].TypeRaw)

	assert.Equal(t, "Cache", injections[4].TypeRaw, "static imports are never expanded")
	assert.Equal(t, "int", injections[5].TypeRaw)

	require.Len(t, types[0].InjectedFields, 6)
	assert.Equal(t, InjectedField{Name: "a", TypeRaw: "com.acme.Repo", Via: model.MechanismEJB}, types[0].InjectedFields[0])
}

func TestExtract_MethodInjection(t *testing.T) {
	t.Parallel()

	unit := &javasrc.CompilationUnit{
		Package: "p",
		Imports: []javasrc.Import{{Name: "com.acme.Repo"}},
		Types: []javasrc.TypeDecl{{
			Name: "Svc",
			Kind: javasrc.DeclClass,
			Methods: []javasrc.MethodDecl{
				{Name: "wire", Annotations: []string{"Inject"}, Params: []javasrc.Param{
					{Type: "Repo", Name: "r"},
					{Type: "Map<String, List<Repo>>", Name: "m"},
				}},
				{Name: "init", Annotations: []string{"Inject"}},
				{Name: "setEm", Annotations: []string{"PersistenceContext"}, Params: []javasrc.Param{
					{Type: "EntityManager...", Name: "em"},
				}},
				{Name: "plain", Params: []javasrc.Param{{Type: "Repo", Name: "r"}}},
			},
		}},
	}

	types, injections := Extract(unit, "f")
	require.Len(t, injections, 3)

	assert.Equal(t, model.MemberMethod, injections[0].MemberKind)
	assert.Equal(t, "wire(Repo,Map)", injections[0].Member)
	assert.Equal(t, "com.acme.Repo", injections[0].TypeRaw)
	assert.Equal(t, model.MechanismCDI, injections[0].Via)

	assert.Equal(t, "wire(Repo,Map)", injections[1].Member)
	assert.Equal(t, "Map", injections[1].TypeRaw)
	assert.Equal(t, model.MechanismCDI, injections[1].Via)

	assert.Equal(t, "setEm(EntityManager)", injections[2].Member)
	assert.Equal(t, model.MechanismJPA, injections[2].Via)

	assert.Empty(t, types[0].InjectedFields, "method injection is not field injection")
}
