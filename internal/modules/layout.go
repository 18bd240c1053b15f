// Package modules locates Gradle modules and their Java source roots.
package modules

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// UnknownModule is returned by ModuleOf when no module owns a path.
const UnknownModule = "unknown"

var (
	// ':moduleName' anywhere on a line, so multi-line include blocks work.
	moduleToken = regexp.MustCompile(`['"]:([^'"]+)['"]`)

	// project(':x').projectDir = new File(settingsDir, 'dir')
	projectDir = regexp.MustCompile(
		`project\(['"]:([^'"]+)['"]\)\.projectDir\s*=\s*(?:new\s+)?File\(settingsDir,\s*['"]([^'"]+)['"]\)`)
)

// settingsFiles are tried in order.
var settingsFiles = []string{"settings.gradle", "settings.gradle.kts"}

// Layout maps module ids to their directories.
type Layout struct {
	repoRoot string
	dirs     map[string]string // module id -> absolute directory
}

// LoadLayout reads the Gradle settings file under repoRoot. A missing settings
// file yields an empty layout. Modules named in exclude are dropped.
func LoadLayout(repoRoot string, exclude []string) (*Layout, error) {
	root, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	layout := &Layout{repoRoot: root, dirs: map[string]string{}}

	var settings string
	for _, name := range settingsFiles {
		candidate := filepath.Join(root, name)
		if _, err := os.Stat(candidate); err == nil {
			settings = candidate
			break
		}
	}
	if settings == "" {
		return layout, nil
	}

	f, err := os.Open(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", settings, err)
	}
	defer f.Close()

	var ids []string
	seen := map[string]bool{}
	overrides := map[string]string{}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		for _, m := range moduleToken.FindAllStringSubmatch(line, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				ids = append(ids, m[1])
			}
		}
		if m := projectDir.FindStringSubmatch(line); m != nil {
			overrides[m[1]] = m[2]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", settings, err)
	}

	for _, id := range ids {
		dir, ok := overrides[id]
		if !ok {
			dir = strings.ReplaceAll(id, ":", "/")
		}
		layout.dirs[id] = filepath.Clean(filepath.Join(root, dir))
	}
	for _, id := range exclude {
		delete(layout.dirs, id)
	}

	return layout, nil
}

// NewLayout builds a layout from explicit module directories. Relative
// directories are resolved against repoRoot.
func NewLayout(repoRoot string, dirs map[string]string) (*Layout, error) {
	root, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}
	layout := &Layout{repoRoot: root, dirs: make(map[string]string, len(dirs))}
	for id, dir := range dirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		layout.dirs[id] = filepath.Clean(dir)
	}
	return layout, nil
}

// RepoRoot returns the absolute repository root.
func (l *Layout) RepoRoot() string {
	return l.repoRoot
}

// Dir returns the directory of a module.
func (l *Layout) Dir(id string) (string, bool) {
	dir, ok := l.dirs[id]
	return dir, ok
}

// ModuleIDs returns all module ids, sorted.
func (l *Layout) ModuleIDs() []string {
	ids := make([]string, 0, len(l.dirs))
	for id := range l.dirs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Filter keeps only the listed modules. An empty list keeps everything.
// Unknown ids are ignored.
func (l *Layout) Filter(ids []string) *Layout {
	if len(ids) == 0 {
		return l
	}
	filtered := &Layout{repoRoot: l.repoRoot, dirs: map[string]string{}}
	for _, id := range ids {
		if dir, ok := l.dirs[id]; ok {
			filtered.dirs[id] = dir
		}
	}
	return filtered
}

// ModuleOf returns the module owning path: the module with the longest
// directory prefix, else the directory name just before "src", else
// UnknownModule.
func (l *Layout) ModuleOf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	best, bestLen := "", -1
	for id, dir := range l.dirs {
		if !within(abs, dir) {
			continue
		}
		if n := len(splitPath(dir)); n > bestLen || (n == bestLen && id < best) {
			best, bestLen = id, n
		}
	}
	if best != "" {
		return best
	}

	rel, err := filepath.Rel(l.repoRoot, abs)
	if err == nil {
		parts := splitPath(rel)
		for i := 1; i < len(parts); i++ {
			if parts[i] == "src" {
				return parts[i-1]
			}
		}
	}
	return UnknownModule
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func splitPath(p string) []string {
	return strings.FieldsFunc(filepath.ToSlash(p), func(r rune) bool { return r == '/' })
}
