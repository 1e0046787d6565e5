package dynecs

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

// World owns the component registry, archetype registry, entity
// bookkeeping, and the two change-tick counters plumbed through but not
// (yet) consulted for filtering. It is supporting infrastructure the
// dynamic query engine is tested against — the engine itself only ever
// calls the read-only accessors below.
type World struct {
	schema     table.Schema
	entryIndex table.EntryIndex
	log        *zap.Logger

	nextHandle ComponentHandle
	components []*componentInfo
	byHandle   map[ComponentHandle]*componentInfo
	byType     map[reflect.Type]ComponentHandle
	byName     map[string]ComponentHandle

	archetypesByMask  map[mask.Mask]*archetype
	archetypeByTable  map[table.Table]*archetype
	archetypesOrdered []*archetype
	nextArchetypeID   archetypeID

	// archetypeGeneration increments every time a new archetype is
	// created; the matcher uses it to invalidate its matching-archetype
	// cache.
	archetypeGeneration uint64

	lastChangeTick uint64
	changeTick     uint64

	borrowMu      sync.Mutex
	activeBorrows []activeBorrow
	deferred      []deferredOp
}

// NewWorld constructs an empty world. A nil logger installs the package
// default (Config.logger, a no-op logger unless the caller configured
// one via Config.SetLogger).
func NewWorld(logger *zap.Logger) *World {
	if logger == nil {
		logger = Config.logger
	}
	return &World{
		schema:           table.Factory.NewSchema(),
		entryIndex:       table.Factory.NewEntryIndex(),
		log:              logger,
		byHandle:         make(map[ComponentHandle]*componentInfo),
		byType:           make(map[reflect.Type]ComponentHandle),
		byName:           make(map[string]ComponentHandle),
		archetypesByMask: make(map[mask.Mask]*archetype),
		archetypeByTable: make(map[table.Table]*archetype),
		nextArchetypeID:  1,
	}
}

// LastChangeTick and ChangeTick expose the world's change-detection
// counters. Neither is consulted by the matcher or fetch engine today;
// they are plumbed through for a future change-filter parameter kind
// that isn't implemented yet.
func (w *World) LastChangeTick() uint64 { return w.lastChangeTick }
func (w *World) ChangeTick() uint64     { return w.changeTick }

// Tick advances the world's current change tick, rolling the previous
// current tick into lastChangeTick. Callers (an outer scheduler) are
// expected to call this once per update cycle; the engine never calls it
// itself.
func (w *World) Tick() {
	w.lastChangeTick = w.changeTick
	w.changeTick++
}

// archetypeFor returns the archetype for exactly this set of component
// handles, creating it if it does not already exist.
func (w *World) archetypeFor(handles []ComponentHandle) (*archetype, error) {
	var m mask.Mask
	infos := make([]*componentInfo, 0, len(handles))
	for _, h := range handles {
		info, ok := w.byHandle[h]
		if !ok {
			return nil, wrapTrace(UnknownComponentError{Handle: h})
		}
		infos = append(infos, info)
		m.Mark(uint32(h))
	}

	if a, ok := w.archetypesByMask[m]; ok {
		return a, nil
	}

	a, err := newArchetype(w, w.nextArchetypeID, infos)
	if err != nil {
		return nil, err
	}
	w.nextArchetypeID++
	w.archetypesByMask[m] = a
	w.archetypeByTable[a.tbl] = a
	w.archetypesOrdered = append(w.archetypesOrdered, a)
	w.archetypeGeneration++

	w.log.Debug("archetype created", zap.Uint32("id", a.ID()), zap.Int("components", len(infos)))
	return a, nil
}

// Archetypes returns every archetype registered so far, in
// registration order — the order the iteration driver visits them in.
func (w *World) Archetypes() []*archetype {
	return w.archetypesOrdered
}

// ArchetypeGeneration returns a counter bumped every time a new
// archetype is created, for cache invalidation.
func (w *World) ArchetypeGeneration() uint64 {
	return w.archetypeGeneration
}

// Spawn creates n new entities carrying exactly the components named by
// handles, returning their handles in creation order.
func (w *World) Spawn(n int, handles ...ComponentHandle) ([]EntityHandle, error) {
	if n <= 0 {
		return nil, nil
	}
	a, err := w.archetypeFor(handles)
	if err != nil {
		return nil, err
	}

	entries, err := a.tbl.NewEntries(n)
	if err != nil {
		return nil, wrapTrace(fmt.Errorf("spawn: %w", err))
	}

	out := make([]EntityHandle, n)
	for i, entry := range entries {
		eh := EntityHandle{id: entry.ID(), recycled: entry.Recycled()}
		out[i] = eh
		for _, sh := range a.sparseHandles {
			info := w.byHandle[sh]
			info.sparse.insert(eh, w.changeTick)
		}
	}
	return out, nil
}

// archetypeOfEntity resolves the archetype an entity currently belongs
// to by following its live table.Entry.
func (w *World) archetypeOfEntity(e EntityHandle) (*archetype, table.Entry, error) {
	entry, err := w.entryIndex.Entry(int(e.id) - 1)
	if err != nil {
		return nil, nil, wrapTrace(err)
	}
	if entry.Recycled() != e.recycled {
		return nil, nil, wrapTrace(fmt.Errorf("entity handle is stale: slot was recycled"))
	}
	a, ok := w.archetypeByTable[entry.Table()]
	if !ok {
		panicInvariant("entity references a table with no owning archetype")
	}
	return a, entry, nil
}

// IsAlive reports whether e still names a live row.
func (w *World) IsAlive(e EntityHandle) bool {
	_, _, err := w.archetypeOfEntity(e)
	return err == nil
}

// Destroy removes the given entities from the world, along with any
// sparse-set component values they carried.
func (w *World) Destroy(entities ...EntityHandle) error {
	byTable := make(map[table.Table][]int)
	for _, e := range entities {
		a, entry, err := w.archetypeOfEntity(e)
		if err != nil {
			continue // already gone; destroying twice is a no-op
		}
		for _, sh := range a.sparseHandles {
			w.byHandle[sh].sparse.remove(e)
		}
		byTable[a.tbl] = append(byTable[a.tbl], int(entry.ID()))
	}
	for tbl, ids := range byTable {
		if _, err := tbl.DeleteEntries(ids...); err != nil {
			return wrapTrace(fmt.Errorf("destroy: %w", err))
		}
	}
	return nil
}
