package dynecs

import (
	"reflect"
	"testing"
)

func TestSparseSetInsertGetRemove(t *testing.T) {
	s := newSparseSet(reflect.TypeOf(Health{}))
	e := EntityHandle{id: 1, recycled: 0}

	if s.contains(e) {
		t.Fatalf("fresh sparse set should not contain anything")
	}

	ptr := s.insert(e, 1)
	if ptr == nil {
		t.Fatalf("insert should return a non-nil pointer")
	}
	health := (*Health)(ptr)
	health.HP = 9

	data, tick, ok := s.getWithTicks(e)
	if !ok {
		t.Fatalf("expected getWithTicks to find the inserted entity")
	}
	if (*Health)(data).HP != 9 {
		t.Errorf("got HP %d, want 9", (*Health)(data).HP)
	}
	if *tick != 1 {
		t.Errorf("got tick %d, want 1", *tick)
	}

	s.remove(e)
	if s.contains(e) {
		t.Errorf("expected remove to drop the entity's slot")
	}
	if _, _, ok := s.getWithTicks(e); ok {
		t.Errorf("getWithTicks should fail after remove")
	}
}

func TestSparseSetReinsertReplacesValue(t *testing.T) {
	s := newSparseSet(reflect.TypeOf(Health{}))
	e := EntityHandle{id: 1, recycled: 0}

	ptr1 := s.insert(e, 1)
	(*Health)(ptr1).HP = 5

	ptr2 := s.insert(e, 2)
	if (*Health)(ptr2).HP != 0 {
		t.Errorf("a fresh insert should zero the value, got HP %d", (*Health)(ptr2).HP)
	}
}
