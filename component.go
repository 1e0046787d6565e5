package dynecs

import (
	"reflect"

	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

// Layout describes a component's in-memory footprint: size and
// alignment in bytes.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// extend grows l to hold another value of layout next immediately after
// it, respecting next's alignment requirement: round the current size up
// to next's alignment, then add next's size. This is the standard
// layout-extension rule for building a query's total layout from its
// per-parameter layouts.
func (l Layout) extend(next Layout) Layout {
	if next.Align == 0 {
		next.Align = 1
	}
	offset := alignUp(l.Size, next.Align)
	size := offset + next.Size
	align := l.Align
	if next.Align > align {
		align = next.Align
	}
	if align == 0 {
		align = 1
	}
	return Layout{Size: size, Align: align}
}

func alignUp(size, align uintptr) uintptr {
	if align <= 1 {
		return size
	}
	return (size + align - 1) &^ (align - 1)
}

// componentInfo is everything the world knows about one registered
// component type.
type componentInfo struct {
	handle      ComponentHandle
	name        string
	storageKind StorageKind
	layout      Layout
	typeID      reflect.Type

	// elementType is non-nil for StorageTable components: it is the
	// identity the real table.Table storage keys columns on.
	elementType table.ElementType

	// sparse is non-nil for StorageSparseSet components.
	sparse *sparseSet
}

// RegisterComponent registers component type T with world under
// storageKind, returning a stable handle. Registering the same type
// twice returns the previously issued handle.
func RegisterComponent[T any](w *World, storageKind StorageKind) ComponentHandle {
	typeID := reflect.TypeOf((*T)(nil)).Elem()
	if handle, ok := w.byType[typeID]; ok {
		return handle
	}

	layout := Layout{Size: typeID.Size(), Align: uintptr(typeID.Align())}

	info := &componentInfo{
		name:        typeID.String(),
		storageKind: storageKind,
		layout:      layout,
		typeID:      typeID,
	}

	switch storageKind {
	case StorageTable:
		et := table.FactoryNewElementType[T]()
		info.elementType = et
		w.schema.Register(et)
	case StorageSparseSet:
		info.sparse = newSparseSet(typeID)
	}

	w.nextHandle++
	info.handle = w.nextHandle
	w.components = append(w.components, info)
	w.byHandle[info.handle] = info
	w.byType[typeID] = info.handle
	w.byName[info.name] = info.handle

	w.log.Debug("component registered",
		zap.String("name", info.name),
		zap.Uint32("handle", uint32(info.handle)),
		zap.Stringer("storage", storageKind),
	)

	return info.handle
}

// ComponentInfo is the read-only view of a registered component exposed
// to callers building fetch state.
type ComponentInfo struct {
	Handle      ComponentHandle
	Name        string
	StorageKind StorageKind
	Layout      Layout
	Type        reflect.Type
}

// ComponentInfo resolves handle to its registration info, or returns
// false if no component was registered under handle in this world.
// Handles are numbered per world starting from 1, so a handle issued by
// another world is not recognised as foreign and may resolve here.
func (w *World) ComponentInfo(handle ComponentHandle) (ComponentInfo, bool) {
	info, ok := w.byHandle[handle]
	if !ok {
		return ComponentInfo{}, false
	}
	return ComponentInfo{
		Handle:      info.handle,
		Name:        info.name,
		StorageKind: info.storageKind,
		Layout:      info.layout,
		Type:        info.typeID,
	}, true
}

// ComponentHandleFor returns the handle T was registered under, if any.
func ComponentHandleFor[T any](w *World) (ComponentHandle, bool) {
	typeID := reflect.TypeOf((*T)(nil)).Elem()
	h, ok := w.byType[typeID]
	return h, ok
}
