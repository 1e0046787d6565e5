package dynecs

import (
	"reflect"
	"testing"
)

func TestItemTypeIDAndPointerMatchDowncast(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	w.Spawn(1, pos)

	desc := NewQuery().MutComponent(pos).Build()
	qs, err := w.QueryDynamic(desc)
	if err != nil {
		t.Fatalf("QueryDynamic: %v", err)
	}
	if err := w.BeginBorrow(qs); err != nil {
		t.Fatalf("BeginBorrow: %v", err)
	}
	defer w.EndBorrow(qs)

	if !qs.IterMut().Next() {
		t.Fatalf("expected at least one row")
	}
	item := qs.Row().Item(0)

	if item.TypeID() != reflect.TypeOf(Position{}) {
		t.Errorf("TypeID() = %v, want %v", item.TypeID(), reflect.TypeOf(Position{}))
	}
	if item.Pointer() == nil {
		t.Errorf("Pointer() should be non-nil for a present component item")
	}

	p, ok := Downcast[Position](item)
	if !ok {
		t.Fatalf("Downcast should succeed")
	}
	if uintptr(item.Pointer()) != reflect.ValueOf(p).Pointer() {
		t.Errorf("Pointer() disagrees with Downcast's returned address")
	}
}

func TestItemTypeIDAndPointerZeroForEntity(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	w.Spawn(1, pos)

	desc := NewQuery().Entity().Build()
	qs, _ := w.QueryDynamic(desc)
	w.BeginBorrow(qs)
	defer w.EndBorrow(qs)

	if !qs.IterMut().Next() {
		t.Fatalf("expected at least one row")
	}
	item := qs.Row().Item(0)

	if item.TypeID() != nil {
		t.Errorf("an Entity item should carry no type identity, got %v", item.TypeID())
	}
	if item.Pointer() != nil {
		t.Errorf("an Entity item should carry no backing pointer")
	}
}
