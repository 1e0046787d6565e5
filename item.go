package dynecs

import (
	"reflect"
	"unsafe"
)

// itemKind distinguishes the cases of a query row's item surface: the
// row's entity, a present component (read-only or mutable), or an
// absent optional component.
type itemKind uint8

const (
	itemEntity itemKind = iota
	itemComponent
	itemMutableComponent
	itemComponentNotPresent
)

// Item is one value in a QueryRow's parameter-ordered result, type
// erased beyond the stored reflect.Type identity. Use Downcast to
// recover a concrete *T / T.
type Item struct {
	kind   itemKind
	entity EntityHandle
	typ    reflect.Type
	ptr    unsafe.Pointer
}

// ComponentNotPresent is true when this item came from an optional
// component parameter and the row does not carry that component.
func (it Item) ComponentNotPresent() bool {
	return it.kind == itemComponentNotPresent
}

// IsEntity is true when this item is the row's own entity handle.
func (it Item) IsEntity() bool {
	return it.kind == itemEntity
}

// Entity returns the item's entity handle; callers must check IsEntity
// first.
func (it Item) Entity() EntityHandle {
	return it.entity
}

// Mutable reports whether this item was fetched as a mutable component
// reference.
func (it Item) Mutable() bool {
	return it.kind == itemMutableComponent
}

// TypeID returns the item's registered component type, or nil for an
// Entity item or an absent optional component. Callers that want to
// implement their own downcast instead of going through Downcast can
// compare this against their own reflect.Type.
func (it Item) TypeID() reflect.Type {
	return it.typ
}

// Pointer returns the item's raw backing pointer, or nil for an Entity
// item or an absent optional component. Paired with TypeID so a caller
// can reinterpret the memory itself rather than calling Downcast.
func (it Item) Pointer() unsafe.Pointer {
	return it.ptr
}

// Downcast recovers the item's component value as *T, returning
// ok=false if the item is absent or T does not match the item's actual
// registered type. A failed downcast never reinterprets the backing
// memory as T; it simply declines.
func Downcast[T any](it Item) (*T, bool) {
	if it.kind != itemComponent && it.kind != itemMutableComponent {
		return nil, false
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	if it.typ != want {
		return nil, false
	}
	return (*T)(it.ptr), true
}

// DowncastUnchecked recovers the item's component value as *T without
// verifying the type, for call sites that have already established the
// match some other way (e.g. via ComponentInfo). It panics if the item
// carries no data pointer at all.
func DowncastUnchecked[T any](it Item) *T {
	if it.ptr == nil {
		panicInvariant("DowncastUnchecked called on an item with no backing value")
	}
	return (*T)(it.ptr)
}
