// Package graph assembles scanned Java types into the per-module structural
// graph: type records, injection edges and inferred EJB bindings.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/mvp-joe/beangraph/internal/modules"
	"github.com/mvp-joe/beangraph/internal/scan"
	"github.com/mvp-joe/beangraph/internal/symbols"
)

// SourceLocator finds the declared modules and their source roots.
type SourceLocator interface {
	Locate(ctx context.Context) (*modules.SourceSet, error)
}

// Scanner scans source roots and registers types with a symbol builder.
type Scanner interface {
	Scan(ctx context.Context, roots map[string][]string, syms *symbols.Builder) (*scan.Result, error)
}

// Builder runs a full indexing pass: locate, scan, freeze, assemble.
type Builder struct {
	locator  SourceLocator
	scanner  Scanner
	progress GraphProgressReporter
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithProgress configures progress reporting.
func WithProgress(progress GraphProgressReporter) BuilderOption {
	return func(b *Builder) {
		b.progress = progress
	}
}

// NewBuilder creates a new graph builder.
func NewBuilder(locator SourceLocator, scanner Scanner, opts ...BuilderOption) *Builder {
	b := &Builder{
		locator: locator,
		scanner: scanner,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs one indexing pass. Unreadable or unparsable files are counted as
// warnings; errors are returned only for cancellation and I/O failures that
// prevent locating or listing sources.
func (b *Builder) Build(ctx context.Context) (*Graph, error) {
	set, err := b.locator.Locate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to locate sources: %w", err)
	}

	moduleIDs := set.Modules()
	if b.progress != nil {
		roots := 0
		for _, r := range set.Roots {
			roots += len(r)
		}
		b.progress.OnLocateComplete(len(moduleIDs), roots)
	}

	syms := symbols.NewBuilder()
	result, err := b.scanner.Scan(ctx, set.Roots, syms)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	g := Assemble(moduleIDs, result, syms.Freeze())

	if b.progress != nil {
		types, injections, bindings := g.Counts()
		b.progress.OnGraphBuildingComplete(types, injections, bindings, time.Since(startTime))
	}

	return g, nil
}
