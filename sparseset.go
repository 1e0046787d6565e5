package dynecs

import (
	"reflect"
	"unsafe"
)

// sparseSet is a hash-like, entity-keyed store for one component type.
// Unlike the dense table columns, entries are individually heap
// allocated: sparse storage exists precisely for components added and
// removed often enough that compacting a dense column on every change
// would dominate the cost, so a per-entry allocation is the right
// tradeoff here rather than a premature optimization.
type sparseSet struct {
	typeID reflect.Type
	slots  map[EntityHandle]*sparseSlot
}

type sparseSlot struct {
	value reflect.Value // addressable, holds the boxed T
	tick  uint64
}

func newSparseSet(typeID reflect.Type) *sparseSet {
	return &sparseSet{
		typeID: typeID,
		slots:  make(map[EntityHandle]*sparseSlot),
	}
}

// insert allocates a new zero-valued slot for e, replacing any existing
// one, and returns a pointer to its storage.
func (s *sparseSet) insert(e EntityHandle, changeTick uint64) unsafe.Pointer {
	v := reflect.New(s.typeID).Elem()
	slot := &sparseSlot{value: v, tick: changeTick}
	s.slots[e] = slot
	return unsafe.Pointer(v.UnsafeAddr())
}

// remove drops e's slot, if any.
func (s *sparseSet) remove(e EntityHandle) {
	delete(s.slots, e)
}

// contains reports whether e currently has a value in this set.
func (s *sparseSet) contains(e EntityHandle) bool {
	_, ok := s.slots[e]
	return ok
}

// getWithTicks returns the data pointer and a pointer to the change-tick
// cell for e, or ok=false if e has no value in this set.
func (s *sparseSet) getWithTicks(e EntityHandle) (data unsafe.Pointer, tick *uint64, ok bool) {
	slot, found := s.slots[e]
	if !found {
		return nil, nil, false
	}
	return unsafe.Pointer(slot.value.UnsafeAddr()), &slot.tick, true
}
