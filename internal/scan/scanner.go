// Package scan extracts types and injection points from Java source roots.
//
// Files are parsed concurrently, but everything order-sensitive (symbol
// registration, warning logs, result lists) happens after all workers finish,
// in sorted module/root/file order, so results never depend on scheduling.
package scan

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/mvp-joe/beangraph/internal/javasrc"
	"github.com/mvp-joe/beangraph/internal/symbols"
	"golang.org/x/sync/errgroup"
)

// Result holds the per-module output of a full scan.
type Result struct {
	Types      map[string][]ScannedType
	Injections map[string][]ScannedInjection
	Files      int
	Warnings   int
}

// Scanner runs the extractor over every file of every source root.
type Scanner struct {
	repoRoot  string
	parser    javasrc.Parser
	discovery *FileDiscovery
	workers   int
	progress  ProgressReporter

	progressMu sync.Mutex
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithParser replaces the default tree-sitter parser.
func WithParser(p javasrc.Parser) Option {
	return func(s *Scanner) {
		s.parser = p
	}
}

// WithDiscovery replaces the default "**/*.java" file discovery.
func WithDiscovery(d *FileDiscovery) Option {
	return func(s *Scanner) {
		s.discovery = d
	}
}

// WithWorkers sets how many files are parsed concurrently. Values below 1
// mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// WithProgress configures progress reporting.
func WithProgress(p ProgressReporter) Option {
	return func(s *Scanner) {
		s.progress = p
	}
}

// New creates a scanner. File paths in results are relative to repoRoot.
func New(repoRoot string, opts ...Option) (*Scanner, error) {
	s := &Scanner{
		repoRoot: repoRoot,
		parser:   javasrc.NewParser(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.discovery == nil {
		d, err := NewFileDiscovery(DefaultInclude, nil)
		if err != nil {
			return nil, err
		}
		s.discovery = d
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s, nil
}

type job struct {
	module string
	path   string
}

// Scan scans all roots (module id -> source root directories) and registers
// every discovered type with syms. Per-file failures are logged and counted
// as warnings; only cancellation, discovery I/O and registration errors are
// returned.
func (s *Scanner) Scan(ctx context.Context, roots map[string][]string, syms *symbols.Builder) (*Result, error) {
	startTime := time.Now()

	result := &Result{
		Types:      make(map[string][]ScannedType),
		Injections: make(map[string][]ScannedInjection),
	}

	jobs, err := s.collectJobs(roots, result)
	if err != nil {
		return nil, err
	}

	if s.progress != nil {
		s.progress.OnScanStart(len(jobs))
	}

	files := make([]*FileResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.ScanFile(gctx, j.module, j.path)
			if res.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			files[i] = res
			s.reportFile(j.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Barrier passed: merge in deterministic order.
	for _, res := range files {
		result.Files++
		if res.Warning {
			result.Warnings++
		}
		if res.Err != nil {
			log.Printf("Warning: failed to scan %s: %v\n", res.Path, res.Err)
			continue
		}
		if len(res.Diagnostics) > 0 {
			d := res.Diagnostics[0]
			log.Printf("Warning: parse problems in %s -> %s at line %d:%d\n", res.Path, d.Message, d.Line, d.Column)
		}
		for _, st := range res.Types {
			if err := syms.Register(st.FQCN); err != nil {
				return nil, fmt.Errorf("failed to register %s: %w", st.FQCN, err)
			}
		}
		result.Types[res.Module] = append(result.Types[res.Module], res.Types...)
		result.Injections[res.Module] = append(result.Injections[res.Module], res.Injections...)
	}

	if s.progress != nil {
		s.progress.OnScanComplete(result.Files, result.Warnings, time.Since(startTime))
	}

	return result, nil
}

// collectJobs lists files per module in sorted order. A file reachable from
// more than one source root is scanned once, under the first module that
// lists it.
func (s *Scanner) collectJobs(roots map[string][]string, result *Result) ([]job, error) {
	moduleIDs := make([]string, 0, len(roots))
	for id := range roots {
		moduleIDs = append(moduleIDs, id)
	}
	sort.Strings(moduleIDs)

	seen := make(map[string]string)
	var jobs []job
	for _, id := range moduleIDs {
		result.Types[id] = []ScannedType{}
		result.Injections[id] = []ScannedInjection{}

		moduleRoots := append([]string(nil), roots[id]...)
		sort.Strings(moduleRoots)
		for _, root := range moduleRoots {
			files, err := s.discovery.Discover(root)
			if err != nil {
				return nil, fmt.Errorf("failed to list sources in %s: %w", root, err)
			}
			for _, f := range files {
				abs, err := filepath.Abs(f)
				if err != nil {
					abs = f
				}
				if owner, dup := seen[abs]; dup {
					log.Printf("Warning: %s already scanned for module %s, skipping for %s\n", f, owner, id)
					continue
				}
				seen[abs] = id
				jobs = append(jobs, job{module: id, path: f})
			}
		}
	}
	return jobs, nil
}

// ScanFile reads, parses and extracts one file. It never returns nil; failures
// are reported through FileResult.Err with Warning set.
func (s *Scanner) ScanFile(ctx context.Context, module, path string) (res *FileResult) {
	res = &FileResult{Module: module, Path: s.relPath(path)}

	defer func() {
		if r := recover(); r != nil {
			res.Types = nil
			res.Injections = nil
			res.Warning = true
			res.Err = fmt.Errorf("extraction panicked: %v", r)
		}
	}()

	source, err := os.ReadFile(path)
	if err != nil {
		res.Warning = true
		res.Err = fmt.Errorf("failed to read source file: %w", err)
		return res
	}

	unit, err := s.parser.Parse(ctx, path, source)
	if err != nil {
		res.Warning = true
		res.Err = err
		return res
	}

	if len(unit.Diagnostics) > 0 {
		res.Warning = true
		res.Diagnostics = unit.Diagnostics
	}

	res.Types, res.Injections = Extract(unit, res.Path)
	return res
}

func (s *Scanner) relPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	root, err := filepath.Abs(s.repoRoot)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (s *Scanner) reportFile(path string) {
	if s.progress == nil {
		return
	}
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	s.progress.OnFileScanned(path)
}
