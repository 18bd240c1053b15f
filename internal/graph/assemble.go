package graph

import (
	"slices"
	"sort"

	"github.com/mvp-joe/beangraph/internal/model"
	"github.com/mvp-joe/beangraph/internal/scan"
	"github.com/mvp-joe/beangraph/internal/symbols"
)

// Assemble turns scan results into per-module records. Every id in moduleIDs
// appears in the result, with empty record lists when nothing was scanned.
// table must be frozen over the same scan.
func Assemble(moduleIDs []string, result *scan.Result, table *symbols.Table) *Graph {
	ids := append([]string(nil), moduleIDs...)
	sort.Strings(ids)

	ctx := newAssemblyContext(ids, result, table)
	ctx.inferBindings(ids, result)

	g := &Graph{
		Modules:   make(map[string]*ModuleRecords, len(ids)),
		TypeIndex: ctx.typeIndex,
		EJBIndex:  make(map[string]string),
		Files:     result.Files,
		Warnings:  result.Warnings,
	}

	for _, id := range ids {
		records := &ModuleRecords{
			Types:      ctx.typeRecords(result.Types[id]),
			Injections: ctx.injectionRecords(result.Injections[id]),
			Bindings:   ctx.bindingsFor(id),
		}
		for _, b := range records.Bindings {
			g.EJBIndex[b.Iface] = id
		}
		g.Modules[id] = records
	}

	g.Deps = moduleDependencies(ids, g)
	return g
}

func (c *assemblyContext) typeRecords(types []scan.ScannedType) []model.TypeRecord {
	records := make([]model.TypeRecord, 0, len(types))
	for _, st := range types {
		kind := model.KindClass
		if st.Interface {
			kind = model.KindInterface
		}

		rec := model.TypeRecord{
			ID:            model.TypeID(st.FQCN),
			Kind:          kind,
			File:          st.File,
			ImplementsIDs: c.resolveAll(st.ImplementsRaw, st.Package),
			ExtendsIDs:    c.resolveAll(st.ExtendsRaw, st.Package),
			EJB:           st.Lifecycle,
			EJBLocal:      []string{},
			EJBRemote:     []string{},
			Injects:       make([]string, 0, len(st.InjectedFields)),
			InjectMembers: c.injectMembers(st.FQCN),
		}

		if st.IsBean() {
			for _, name := range st.ImplementsRaw {
				fqcn, iface, ok := c.markedInterface(name, st.Package)
				if !ok {
					continue
				}
				if iface.Local {
					rec.EJBLocal = append(rec.EJBLocal, model.TypeID(fqcn))
				}
				if iface.Remote {
					rec.EJBRemote = append(rec.EJBRemote, model.TypeID(fqcn))
				}
			}
			sort.Strings(rec.EJBLocal)
			sort.Strings(rec.EJBRemote)
		}

		for _, f := range st.InjectedFields {
			rec.Injects = append(rec.Injects, model.FieldID(st.FQCN, f.Name))
		}
		sort.Strings(rec.Injects)

		records = append(records, rec)
	}
	model.SortTypes(records)
	return records
}

func (c *assemblyContext) injectionRecords(injections []scan.ScannedInjection) []model.InjectionRecord {
	records := make([]model.InjectionRecord, 0, len(injections))
	for _, si := range injections {
		fqcn, ok := c.table.Resolve(si.TypeRaw, si.OwnerPackage)
		records = append(records, model.InjectionRecord{
			From:       model.TypeID(si.OwnerFQCN),
			MemberKind: si.MemberKind,
			Member:     si.Member,
			Type:       c.table.TypeID(si.TypeRaw, si.OwnerPackage),
			Via:        si.Via,
			Verified:   ok && c.table.IsKnown(fqcn),
		})
	}
	model.SortInjections(records)
	return records
}

// resolveAll maps raw supertype names to sorted type ids, using placeholders
// for names the symbol table cannot resolve.
func (c *assemblyContext) resolveAll(names []string, pkg string) []string {
	ids := make([]string, 0, len(names))
	for _, n := range names {
		ids = append(ids, c.table.TypeID(n, pkg))
	}
	sort.Strings(ids)
	return ids
}

// injectMembers lists each injected member of fqcn once. A method injected
// through several parameters contributes a single id.
func (c *assemblyContext) injectMembers(fqcn string) []string {
	members := append([]string{}, c.members[fqcn]...)
	sort.Strings(members)
	return slices.Compact(members)
}
