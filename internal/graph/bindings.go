package graph

import (
	"log"
	"sort"

	"github.com/mvp-joe/beangraph/internal/model"
	"github.com/mvp-joe/beangraph/internal/scan"
	"github.com/mvp-joe/beangraph/internal/symbols"
)

// bindingAccumulator collects the beans implementing one marked interface.
type bindingAccumulator struct {
	local  bool
	remote bool
	impls  map[string]bool // bean fqcns
}

// assemblyContext carries the frozen lookups and inferred bindings through
// assembly. Nothing in it changes once inferBindings has run.
type assemblyContext struct {
	table     *symbols.Table
	byFQCN    map[string]*scan.ScannedType
	typeIndex map[string]string // type id -> module
	bindings  map[string]*bindingAccumulator
	members   map[string][]string // owner fqcn -> injected member ids
}

// newAssemblyContext indexes scanned types by fqcn and module. Modules are
// visited in sorted order; a duplicated fqcn keeps its last declaration.
func newAssemblyContext(moduleIDs []string, result *scan.Result, table *symbols.Table) *assemblyContext {
	ctx := &assemblyContext{
		table:     table,
		byFQCN:    make(map[string]*scan.ScannedType),
		typeIndex: make(map[string]string),
		bindings:  make(map[string]*bindingAccumulator),
		members:   make(map[string][]string),
	}

	for _, id := range moduleIDs {
		types := result.Types[id]
		for i := range types {
			st := &types[i]
			if prev, dup := ctx.byFQCN[st.FQCN]; dup {
				log.Printf("Warning: duplicate type %s in %s and %s, keeping the latter\n", st.FQCN, prev.File, st.File)
			}
			ctx.byFQCN[st.FQCN] = st
			ctx.typeIndex[model.TypeID(st.FQCN)] = id
		}
		for _, si := range result.Injections[id] {
			ctx.members[si.OwnerFQCN] = append(ctx.members[si.OwnerFQCN],
				model.MemberID(si.MemberKind, si.OwnerFQCN, si.Member))
		}
	}

	return ctx
}

// markedInterface resolves rawName from pkg to a scanned interface carrying
// a Local or Remote marker.
func (c *assemblyContext) markedInterface(rawName, pkg string) (string, *scan.ScannedType, bool) {
	fqcn, ok := c.table.Resolve(rawName, pkg)
	if !ok {
		return "", nil, false
	}
	iface, ok := c.byFQCN[fqcn]
	if !ok || !iface.Interface || (!iface.Local && !iface.Remote) {
		return "", nil, false
	}
	return fqcn, iface, true
}

// inferBindings records every bean under each marked interface it implements.
func (c *assemblyContext) inferBindings(moduleIDs []string, result *scan.Result) {
	for _, id := range moduleIDs {
		for _, st := range result.Types[id] {
			if !st.IsBean() {
				continue
			}
			for _, name := range st.ImplementsRaw {
				fqcn, iface, ok := c.markedInterface(name, st.Package)
				if !ok {
					continue
				}
				acc, exists := c.bindings[fqcn]
				if !exists {
					acc = &bindingAccumulator{
						local:  iface.Local,
						remote: iface.Remote,
						impls:  make(map[string]bool),
					}
					c.bindings[fqcn] = acc
				}
				acc.impls[st.FQCN] = true
			}
		}
	}
}

// bindingsFor returns the binding records of interfaces owned by moduleID.
func (c *assemblyContext) bindingsFor(moduleID string) []model.BindingRecord {
	records := []model.BindingRecord{}
	for ifaceFQCN, acc := range c.bindings {
		ifaceID := model.TypeID(ifaceFQCN)
		if c.typeIndex[ifaceID] != moduleID {
			continue
		}

		impls := make([]string, 0, len(acc.impls))
		for bean := range acc.impls {
			impls = append(impls, bean)
		}
		sort.Strings(impls)
		for i, bean := range impls {
			impls[i] = model.TypeID(bean)
		}

		records = append(records, model.BindingRecord{
			Iface:  ifaceID,
			Local:  acc.local,
			Remote: acc.remote,
			Impls:  impls,
		})
	}
	model.SortBindings(records)
	return records
}
