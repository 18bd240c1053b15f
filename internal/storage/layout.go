// Package storage writes the assembled graph to an output directory as JSONL
// record files plus JSON indices, and reads the master index back.
package storage

import "github.com/mvp-joe/beangraph/internal/git"

// SchemaVersion identifies the output format in index.json.
const SchemaVersion = "ai-graph/v2"

const (
	// IndexFileName is the master index of a run.
	IndexFileName = "index.json"
	// TypesIndexFileName maps every type id to its owning module.
	TypesIndexFileName = "types.index.json"
	// EJBIndexFileName maps every bound interface id to its owning module.
	EJBIndexFileName = "ejb.index.json"

	tempDirName = ".tmp"
)

// TypesFileName returns the type record file of a module.
func TypesFileName(module string) string { return "types." + module + ".jsonl" }

// InjectFileName returns the injection record file of a module.
func InjectFileName(module string) string { return "inject." + module + ".jsonl" }

// EJBFileName returns the binding record file of a module.
func EJBFileName(module string) string { return "ejb." + module + ".jsonl" }

// Manifest is the content of index.json.
type Manifest struct {
	Schema      string          `json:"schema"`
	GeneratedAt string          `json:"generatedAt"`
	RunID       string          `json:"runId"`
	Source      *git.Provenance `json:"source,omitempty"`
	Modules     []ModuleFiles   `json:"modules"`
	TypeIndex   string          `json:"typeIndex"`
	EJBIndex    string          `json:"ejbIndex"`
	Summary     Summary         `json:"summary"`
	ModuleDeps  ModuleDeps      `json:"moduleDeps"`
}

// ModuleFiles names the record files of one module.
type ModuleFiles struct {
	ID     string `json:"id"`
	Types  string `json:"types"`
	Inject string `json:"inject"`
	EJB    string `json:"ejb"`
}

// Summary holds record counts for the whole run.
type Summary struct {
	TotalTypes    int             `json:"totalTypes"`
	TotalInjects  int             `json:"totalInjects"`
	TotalEJB      int             `json:"totalEjb"`
	ParseWarnings int             `json:"parseWarnings"`
	Modules       []ModuleSummary `json:"modules"`
}

// ModuleSummary holds record counts for one module.
type ModuleSummary struct {
	ID      string `json:"id"`
	Types   int    `json:"types"`
	Injects int    `json:"injects"`
	EJB     int    `json:"ejb"`
}

// ModuleDeps mirrors graph.ModuleDeps in the manifest.
type ModuleDeps struct {
	Order  []string            `json:"order"`
	Edges  map[string][]string `json:"edges"`
	Cyclic bool                `json:"cyclic"`
}
