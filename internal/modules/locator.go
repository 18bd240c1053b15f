package modules

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultSkipDirs are directory names never descended into.
var DefaultSkipDirs = []string{".git", ".idea", "build", "out", "node_modules"}

// SourceSet is the output of locating: every declared module, and the Java
// source roots found for each.
type SourceSet struct {
	Layout *Layout
	Roots  map[string][]string // module id -> absolute source roots, sorted
}

// Modules returns the declared module ids, sorted.
func (s *SourceSet) Modules() []string {
	return s.Layout.ModuleIDs()
}

// Locator finds source roots for the modules of a layout.
type Locator struct {
	layout       *Layout
	includeTests bool
	skipDirs     []glob.Glob
	gitignore    *ignore.GitIgnore
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator) error

// WithTests includes non-main source sets (src/test/java, src/integrationTest/java, ...).
func WithTests(include bool) LocatorOption {
	return func(l *Locator) error {
		l.includeTests = include
		return nil
	}
}

// WithSkipDirs replaces DefaultSkipDirs. Patterns are globs matched against
// a directory's base name.
func WithSkipDirs(patterns []string) LocatorOption {
	return func(l *Locator) error {
		l.skipDirs = nil
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				return fmt.Errorf("invalid skip pattern %q: %w", p, err)
			}
			l.skipDirs = append(l.skipDirs, g)
		}
		return nil
	}
}

// WithGitIgnore skips directories matched by the repository's root .gitignore.
// A missing .gitignore is not an error.
func WithGitIgnore(enabled bool) LocatorOption {
	return func(l *Locator) error {
		if !enabled {
			l.gitignore = nil
			return nil
		}
		l.gitignore = loadGitignore(l.layout.RepoRoot())
		return nil
	}
}

// NewLocator creates a locator over layout.
func NewLocator(layout *Layout, opts ...LocatorOption) (*Locator, error) {
	l := &Locator{layout: layout}
	if err := WithSkipDirs(DefaultSkipDirs)(l); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Locate walks every module directory for src/<set>/java roots. A root that
// lies inside a nested module's directory is assigned to that nested module
// only. Modules whose directory is missing are kept with no roots.
func (l *Locator) Locate(ctx context.Context) (*SourceSet, error) {
	set := &SourceSet{Layout: l.layout, Roots: map[string][]string{}}

	for _, id := range l.layout.ModuleIDs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		set.Roots[id] = []string{}
		dir, _ := l.layout.Dir(id)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			log.Printf("Warning: module %s directory %s not found\n", id, dir)
			continue
		}

		roots, err := l.findRoots(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to find source roots for module %s: %w", id, err)
		}
		for _, root := range roots {
			if owner := l.layout.ModuleOf(root); owner != id {
				continue
			}
			set.Roots[id] = append(set.Roots[id], root)
		}
		sort.Strings(set.Roots[id])
	}

	return set, nil
}

func (l *Locator) findRoots(moduleDir string) ([]string, error) {
	var roots []string
	err := filepath.WalkDir(moduleDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != moduleDir && l.skip(path, d.Name()) {
			return filepath.SkipDir
		}
		if l.isSourceRoot(path) {
			roots = append(roots, path)
			return filepath.SkipDir
		}
		return nil
	})
	return roots, err
}

func (l *Locator) skip(path, name string) bool {
	for _, g := range l.skipDirs {
		if g.Match(name) {
			return true
		}
	}
	if l.gitignore != nil {
		if rel, err := filepath.Rel(l.layout.RepoRoot(), path); err == nil {
			if l.gitignore.MatchesPath(filepath.ToSlash(rel) + "/") {
				return true
			}
		}
	}
	return false
}

// isSourceRoot matches .../src/<set>/java, keeping only "main" unless tests
// are included.
func (l *Locator) isSourceRoot(dir string) bool {
	parts := splitPath(dir)
	n := len(parts)
	if n < 3 {
		return false
	}
	if parts[n-1] != "java" || parts[n-3] != "src" || parts[n-2] == "" {
		return false
	}
	return l.includeTests || parts[n-2] == "main"
}

// loadGitignore loads the root .gitignore, or returns nil if absent.
func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
