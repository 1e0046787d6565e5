package dynecs

import (
	"reflect"

	"github.com/TheBitDrifter/table"
)

// columnFor locates the boxed column slice for typeID among a table's
// rows, scanning table.Table.Rows() by element type rather than
// assuming a keyed column lookup exists.
func columnFor(tbl table.Table, typeID reflect.Type) (reflect.Value, bool) {
	for _, row := range tbl.Rows() {
		v := reflect.Value(row)
		if v.Type().Elem() == typeID {
			return v, true
		}
	}
	return reflect.Value{}, false
}

// paramFetch is the per-parameter runtime fetch state: everything
// resolved once at FetchState derivation (storage kind, handle, type)
// plus the mutable, per-storage-transition fields resolved when the
// engine moves to a new archetype or table. Implemented as one struct
// with a kind tag rather than an interface, since every variant shares
// the bulk of its fields and the hot fetch path branches only on these
// plain fields (kind, storageKind, present, optional, mutable) rather
// than dispatching through an interface.
type paramFetch struct {
	kind        paramKind
	mutable     bool
	optional    bool
	handle      ComponentHandle
	typeID      reflect.Type
	storageKind StorageKind
	sparse      *sparseSet

	// present is only meaningful for optional component parameters: does
	// the current archetype/table carry this component at all.
	present bool
	column  reflect.Value // valid when storageKind == StorageTable && present
}

// fetchEngine drives one query's parameter list across the
// setArchetype / setTable / archetypeFetch / tableFetch lifecycle.
type fetchEngine struct {
	params   []paramFetch
	entities []EntityHandle
}

func newFetchEngine(fs *FetchState) *fetchEngine {
	e := &fetchEngine{params: make([]paramFetch, len(fs.params))}
	for i, pf := range fs.params {
		pe := paramFetch{kind: pf.param.kind, mutable: pf.param.mutable, optional: pf.param.optional}
		if pf.info != nil {
			pe.handle = pf.param.handle
			pe.typeID = pf.info.typeID
			pe.storageKind = pf.info.storageKind
			pe.sparse = pf.info.sparse
		}
		e.params[i] = pe
	}
	return e
}

// setArchetype is the coarse-grained storage transition: called once
// per archetype the iteration driver visits. It resolves per-archetype
// presence for optional components and the row -> entity mapping, then
// delegates to setTable for the dense-column resolution (every
// archetype in this world owns exactly one table, but the two steps
// stay distinct so a world where archetypes share tables would only
// need to change how setTable is invoked, not the fetch logic itself).
func (e *fetchEngine) setArchetype(a *archetype) {
	e.entities = a.Entities()
	for i := range e.params {
		p := &e.params[i]
		if p.kind != paramComponent {
			continue
		}
		p.present = a.Contains(p.handle)
	}
	e.setTable(a.tbl)
}

// setTable is the fine-grained storage transition: resolves each
// Table-backed parameter's boxed column slice for the table about to be
// iterated.
func (e *fetchEngine) setTable(tbl table.Table) {
	for i := range e.params {
		p := &e.params[i]
		if p.kind != paramComponent || p.storageKind != StorageTable {
			continue
		}
		if col, ok := columnFor(tbl, p.typeID); ok {
			p.column = col
		} else {
			p.column = reflect.Value{}
		}
	}
}

// archetypeFetch produces the item for parameter i at archetype-local
// row, consulting the sparse set directly for SparseSet-backed
// components (they have no table column to address).
func (e *fetchEngine) archetypeFetch(i, row int) Item {
	p := &e.params[i]
	ent := e.entities[row]

	switch p.kind {
	case paramEntity:
		return Item{kind: itemEntity, entity: ent}
	case paramComponent:
		switch p.storageKind {
		case StorageSparseSet:
			return e.fetchSparse(p, ent)
		default:
			return e.fetchDense(p, row, ent)
		}
	}
	panicInvariant("unreachable param kind in archetypeFetch")
	return Item{}
}

// tableFetch is the dense fast path: identical to archetypeFetch for
// Table-backed parameters, since a table row never needs the archetype
// to resolve a column once setTable has run. Sparse-backed and Entity
// parameters still need the entity mapping captured at setArchetype
// time, so they delegate back rather than duplicating it.
func (e *fetchEngine) tableFetch(i, row int) Item {
	return e.archetypeFetch(i, row)
}

func (e *fetchEngine) fetchDense(p *paramFetch, row int, ent EntityHandle) Item {
	if !p.present {
		if p.optional {
			return Item{kind: itemComponentNotPresent, entity: ent}
		}
		panicInvariant("matched archetype lacks a mandatory component column")
	}
	ptr := p.column.Index(row).Addr().UnsafePointer()
	kind := itemComponent
	if p.mutable {
		kind = itemMutableComponent
	}
	return Item{kind: kind, entity: ent, typ: p.typeID, ptr: ptr}
}

func (e *fetchEngine) fetchSparse(p *paramFetch, ent EntityHandle) Item {
	ptr, _, ok := p.sparse.getWithTicks(ent)
	if !ok {
		if p.optional {
			return Item{kind: itemComponentNotPresent, entity: ent}
		}
		panicInvariant("matched archetype's sparse component missing a value for a live entity")
	}
	kind := itemComponent
	if p.mutable {
		kind = itemMutableComponent
	}
	return Item{kind: kind, entity: ent, typ: p.typeID, ptr: ptr}
}
