package dynecs

import "github.com/TheBitDrifter/table"

// ComponentHandle is an opaque, dense integer identifying a registered
// component type within a given World. Handle 0 is never issued and is
// used as the zero-value sentinel for "no component".
type ComponentHandle uint32

// EntityHandle is an opaque identifier for a single row, grounded
// directly on table.EntryID rather than a hand-rolled index: the
// table package already tracks a recycle count per slot to detect use
// of a stale handle after its row was reused, so EntityHandle just
// carries both halves of that pair instead of reinventing them.
type EntityHandle struct {
	id       table.EntryID
	recycled int
}

// Valid reports whether the handle could plausibly refer to a live row;
// it does not consult the World, so a World-level lookup
// (World.IsAlive) is still required to confirm the entity has not since
// been destroyed.
func (e EntityHandle) Valid() bool {
	return e.id != 0
}

// StorageKind identifies which of the world's two column storage
// layouts backs a component.
type StorageKind uint8

const (
	// StorageTable is dense, column-oriented storage: every archetype
	// that contains the component stores it contiguously, indexed by
	// table row.
	StorageTable StorageKind = iota
	// StorageSparseSet is keyed by entity handle, suited to components
	// that are added and removed frequently.
	StorageSparseSet
)

func (k StorageKind) String() string {
	switch k {
	case StorageTable:
		return "Table"
	case StorageSparseSet:
		return "SparseSet"
	default:
		return "Unknown"
	}
}
