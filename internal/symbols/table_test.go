package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the symbol table:
// - Dotted names pass through unchanged, known or not
// - Same-package match wins over a globally unique short name elsewhere
// - A globally unique short name resolves from any package
// - An ambiguous short name is unresolved from an unrelated package
// - A twice-registered fqcn makes its short name ambiguous
// - TypeID returns the canonical id or a normalized placeholder
// - Registration after Freeze fails with ErrFrozen

func freeze(t *testing.T, fqcns ...string) *Table {
	t.Helper()
	b := NewBuilder()
	for _, f := range fqcns {
		require.NoError(t, b.Register(f))
	}
	return b.Freeze()
}

func TestResolve_QualifiedPassThrough(t *testing.T) {
	t.Parallel()

	table := freeze(t, "a.Foo")

	fqcn, ok := table.Resolve("x.y.Unknown", "a")
	assert.True(t, ok)
	assert.Equal(t, "x.y.Unknown", fqcn)
	assert.False(t, table.IsKnown("x.y.Unknown"))

	fqcn, ok = table.Resolve("java.util.List<String>", "a")
	assert.True(t, ok)
	assert.Equal(t, "java.util.List", fqcn)
}

func TestResolve_SamePackagePrecedence(t *testing.T) {
	t.Parallel()

	// "Repo" is declared in p and in q; from p the same-package one wins.
	table := freeze(t, "p.Repo", "q.Repo", "r.Other")

	fqcn, ok := table.Resolve("Repo", "p")
	require.True(t, ok)
	assert.Equal(t, "p.Repo", fqcn)

	// From a third package the short name is ambiguous.
	_, ok = table.Resolve("Repo", "r")
	assert.False(t, ok)
}

func TestResolve_GlobalUniqueness(t *testing.T) {
	t.Parallel()

	table := freeze(t, "a.Dup", "b.Dup", "c.Single")

	fqcn, ok := table.Resolve("Single", "unrelated")
	require.True(t, ok)
	assert.Equal(t, "c.Single", fqcn)

	_, ok = table.Resolve("Dup", "unrelated")
	assert.False(t, ok)
	assert.Equal(t, "t:Dup", table.TypeID("Dup", "unrelated"))
	assert.Equal(t, "t:a.Dup", table.TypeID("Dup", "a"))
}

func TestResolve_DuplicateRegistrationIsAmbiguous(t *testing.T) {
	t.Parallel()

	table := freeze(t, "a.Twice", "a.Twice")

	_, ok := table.Resolve("Twice", "elsewhere")
	assert.False(t, ok)
	fqcn, ok := table.Resolve("Twice", "a")
	assert.True(t, ok)
	assert.Equal(t, "a.Twice", fqcn)
	assert.True(t, table.IsKnown("a.Twice"))
}

func TestTypeID_Placeholder(t *testing.T) {
	t.Parallel()

	table := freeze(t)

	assert.Equal(t, "t:Missing", table.TypeID("Missing<T>[]", "p"))
	assert.Equal(t, "t:", table.TypeID("", "p"))
	_, ok := table.Resolve("   ", "p")
	assert.False(t, ok)
}

func TestBuilder_RegisterAfterFreeze(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Register("a.A"))
	b.Freeze()

	assert.ErrorIs(t, b.Register("a.B"), ErrFrozen)
}
