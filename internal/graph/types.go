package graph

import (
	"time"

	"github.com/mvp-joe/beangraph/internal/model"
	"github.com/mvp-joe/beangraph/internal/scan"
)

// Graph is the assembled output of one indexing run.
type Graph struct {
	Modules   map[string]*ModuleRecords
	TypeIndex map[string]string // type id -> owning module
	EJBIndex  map[string]string // bound interface id -> owning module
	Deps      ModuleDeps
	Files     int
	Warnings  int
}

// ModuleRecords holds the sorted records of one module.
type ModuleRecords struct {
	Types      []model.TypeRecord
	Injections []model.InjectionRecord
	Bindings   []model.BindingRecord
}

// ModuleDeps describes which modules reference types owned by other modules.
type ModuleDeps struct {
	// Order lists every module with its dependencies before it, or
	// alphabetically when the dependencies are cyclic.
	Order  []string            `json:"order"`
	Edges  map[string][]string `json:"edges"` // module -> modules it depends on, sorted
	Cyclic bool                `json:"cyclic"`
}

// Counts returns total type, injection and binding records.
func (g *Graph) Counts() (types, injections, bindings int) {
	for _, m := range g.Modules {
		types += len(m.Types)
		injections += len(m.Injections)
		bindings += len(m.Bindings)
	}
	return types, injections, bindings
}

// GraphProgressReporter reports progress during graph building.
type GraphProgressReporter interface {
	scan.ProgressReporter
	OnLocateComplete(modules, roots int)
	OnGraphBuildingComplete(types, injections, bindings int, duration time.Duration)
}
