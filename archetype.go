package dynecs

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
)

type archetypeID uint32

// archetype is the world-owned set of entities that all share exactly
// the same component handles, plus a table.Table for the
// Table-storage-kind subset of that set. In this world every archetype
// owns exactly one table (it is never shared with another archetype),
// so an archetype's rows and its table's rows are the same sequence —
// table.EntryIndex already gives stable entity identity across the
// row-shuffling table.DeleteEntries performs internally, so there is no
// separate row map to keep in sync.
type archetype struct {
	id  archetypeID
	tbl table.Table

	full   mask.Mask // every component handle this archetype carries
	dense  mask.Mask // the StorageTable subset of full
	sparse mask.Mask // the StorageSparseSet subset of full

	sparseHandles []ComponentHandle // components backed by a sparse set, for this archetype
}

func newArchetype(w *World, id archetypeID, infos []*componentInfo) (*archetype, error) {
	var elementTypes []table.ElementType
	a := &archetype{id: id}

	for _, info := range infos {
		bit := uint32(info.handle)
		a.full.Mark(bit)
		switch info.storageKind {
		case StorageTable:
			a.dense.Mark(bit)
			elementTypes = append(elementTypes, info.elementType)
		case StorageSparseSet:
			a.sparse.Mark(bit)
			a.sparseHandles = append(a.sparseHandles, info.handle)
		}
	}

	tbl, err := table.NewTableBuilder().
		WithSchema(w.schema).
		WithEntryIndex(w.entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, wrapTrace(err)
	}
	a.tbl = tbl
	return a, nil
}

// ID returns the archetype's stable identifier within its world.
func (a *archetype) ID() uint32 { return uint32(a.id) }

// Table returns the archetype's dense column storage.
func (a *archetype) Table() table.Table { return a.tbl }

// Contains reports whether handle is present on every entity of this
// archetype, regardless of storage kind.
func (a *archetype) Contains(handle ComponentHandle) bool {
	var m mask.Mask
	m.Mark(uint32(handle))
	return a.full.ContainsAll(m)
}

// Len returns the number of entities (rows) currently in the archetype.
func (a *archetype) Len() int {
	return a.tbl.Length()
}

// Entities returns the entity handle occupying each row, in row order.
func (a *archetype) Entities() []EntityHandle {
	n := a.tbl.Length()
	out := make([]EntityHandle, n)
	for i := 0; i < n; i++ {
		entry, err := a.tbl.Entry(i)
		if err != nil {
			panicInvariant("archetype row has no backing table entry")
		}
		out[i] = EntityHandle{id: entry.ID(), recycled: entry.Recycled()}
	}
	return out
}
