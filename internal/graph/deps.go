package graph

import (
	"sort"

	dgraph "github.com/dominikbraun/graph"
)

// moduleDependencies derives module-level edges from resolved type references.
// Module M depends on N when a type or injection in M references a type owned
// by N. Placeholder ids never produce edges.
func moduleDependencies(moduleIDs []string, g *Graph) ModuleDeps {
	dg := dgraph.New(dgraph.StringHash, dgraph.Directed())
	for _, id := range moduleIDs {
		_ = dg.AddVertex(id)
	}

	link := func(from, typeID string) {
		to, ok := g.TypeIndex[typeID]
		if !ok || to == from {
			return
		}
		// Edges point from dependency to dependent so the topological
		// order lists dependencies first.
		_ = dg.AddEdge(to, from)
	}

	for _, id := range moduleIDs {
		records := g.Modules[id]
		for _, t := range records.Types {
			for _, ref := range t.ImplementsIDs {
				link(id, ref)
			}
			for _, ref := range t.ExtendsIDs {
				link(id, ref)
			}
		}
		for _, inj := range records.Injections {
			link(id, inj.Type)
		}
	}

	deps := ModuleDeps{Edges: make(map[string][]string, len(moduleIDs))}

	predecessors, err := dg.PredecessorMap()
	if err == nil {
		for id, preds := range predecessors {
			on := make([]string, 0, len(preds))
			for p := range preds {
				on = append(on, p)
			}
			sort.Strings(on)
			deps.Edges[id] = on
		}
	}

	order, err := dgraph.StableTopologicalSort(dg, func(a, b string) bool { return a < b })
	if err != nil {
		deps.Cyclic = true
		order = append([]string(nil), moduleIDs...)
		sort.Strings(order)
	}
	deps.Order = order

	return deps
}
