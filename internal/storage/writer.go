package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mvp-joe/beangraph/internal/git"
	"github.com/mvp-joe/beangraph/internal/graph"
)

// Writer writes graphs to an output directory.
type Writer struct {
	outDir string
	now    func() time.Time
	runID  func() string
	source *git.Provenance
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

// WithRunID overrides the run id generator.
func WithRunID(runID func() string) WriterOption {
	return func(w *Writer) {
		w.runID = runID
	}
}

// WithSource records the indexed revision in the master index.
func WithSource(p *git.Provenance) WriterOption {
	return func(w *Writer) {
		w.source = p
	}
}

// NewWriter creates a writer for outDir, creating the directory if needed.
func NewWriter(outDir string, opts ...WriterOption) (*Writer, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	w := &Writer{
		outDir: outDir,
		now:    time.Now,
		runID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// OutDir returns the output directory.
func (w *Writer) OutDir() string {
	return w.outDir
}

// Write emits every module's record files, both global indices and the
// master index. Each file is written to a temp path and renamed into place.
func (w *Writer) Write(g *graph.Graph) (*Manifest, error) {
	tempDir := filepath.Join(w.outDir, tempDirName)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	moduleIDs := make([]string, 0, len(g.Modules))
	for id := range g.Modules {
		moduleIDs = append(moduleIDs, id)
	}
	sort.Strings(moduleIDs)

	manifest := &Manifest{
		Schema:      SchemaVersion,
		GeneratedAt: w.now().UTC().Format(time.RFC3339),
		RunID:       w.runID(),
		Source:      w.source,
		Modules:     make([]ModuleFiles, 0, len(moduleIDs)),
		TypeIndex:   TypesIndexFileName,
		EJBIndex:    EJBIndexFileName,
		Summary: Summary{
			ParseWarnings: g.Warnings,
			Modules:       make([]ModuleSummary, 0, len(moduleIDs)),
		},
		ModuleDeps: ModuleDeps{
			Order:  g.Deps.Order,
			Edges:  g.Deps.Edges,
			Cyclic: g.Deps.Cyclic,
		},
	}
	if manifest.ModuleDeps.Order == nil {
		manifest.ModuleDeps.Order = []string{}
	}
	if manifest.ModuleDeps.Edges == nil {
		manifest.ModuleDeps.Edges = map[string][]string{}
	}

	for _, id := range moduleIDs {
		records := g.Modules[id]
		files := ModuleFiles{
			ID:     id,
			Types:  TypesFileName(id),
			Inject: InjectFileName(id),
			EJB:    EJBFileName(id),
		}

		if err := writeJSONL(w, files.Types, records.Types); err != nil {
			return nil, err
		}
		if err := writeJSONL(w, files.Inject, records.Injections); err != nil {
			return nil, err
		}
		if err := writeJSONL(w, files.EJB, records.Bindings); err != nil {
			return nil, err
		}

		manifest.Modules = append(manifest.Modules, files)
		manifest.Summary.Modules = append(manifest.Summary.Modules, ModuleSummary{
			ID:      id,
			Types:   len(records.Types),
			Injects: len(records.Injections),
			EJB:     len(records.Bindings),
		})
		manifest.Summary.TotalTypes += len(records.Types)
		manifest.Summary.TotalInjects += len(records.Injections)
		manifest.Summary.TotalEJB += len(records.Bindings)
	}

	if err := w.writeJSON(TypesIndexFileName, g.TypeIndex); err != nil {
		return nil, err
	}
	if err := w.writeJSON(EJBIndexFileName, g.EJBIndex); err != nil {
		return nil, err
	}
	if err := w.writeJSON(IndexFileName, manifest); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(tempDir); err != nil {
		return nil, fmt.Errorf("failed to remove temp directory: %w", err)
	}

	return manifest, nil
}

// writeJSONL writes one compact JSON object per line.
func writeJSONL[T any](w *Writer, name string, records []T) error {
	return w.atomicWrite(name, func(bw *bufio.Writer) error {
		enc := json.NewEncoder(bw)
		enc.SetEscapeHTML(false)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
		}
		return nil
	})
}

// writeJSON writes v as indented JSON. Map keys come out sorted.
func (w *Writer) writeJSON(name string, v any) error {
	return w.atomicWrite(name, func(bw *bufio.Writer) error {
		enc := json.NewEncoder(bw)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		return nil
	})
}

// atomicWrite writes name under the temp directory and renames it into the
// output directory once fully flushed.
func (w *Writer) atomicWrite(name string, fill func(*bufio.Writer) error) error {
	tempPath := filepath.Join(w.outDir, tempDirName, name)
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", name, err)
	}

	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tempPath, filepath.Join(w.outDir, name)); err != nil {
		return fmt.Errorf("failed to rename temp file %s: %w", name, err)
	}
	return nil
}
