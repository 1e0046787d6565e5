package dynecs

import "testing"

func TestMatcherFindsArchetypesWithMandatoryComponents(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	vel := RegisterComponent[Velocity](w, StorageTable)

	w.Spawn(2, pos)
	w.Spawn(3, pos, vel)

	desc := NewQuery().Component(pos).Build()
	fs, err := DeriveFetchState(w, desc)
	if err != nil {
		t.Fatalf("DeriveFetchState: %v", err)
	}
	m := newMatcher(w)
	matched := m.matchingArchetypes(fs)
	if len(matched) != 2 {
		t.Fatalf("got %d matching archetypes, want 2", len(matched))
	}
}

func TestMatcherExcludesArchetypesFailingFilter(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	vel := RegisterComponent[Velocity](w, StorageTable)

	w.Spawn(2, pos)
	w.Spawn(3, pos, vel)

	desc := NewQuery().Component(pos).Without(vel).Build()
	fs, err := DeriveFetchState(w, desc)
	if err != nil {
		t.Fatalf("DeriveFetchState: %v", err)
	}
	m := newMatcher(w)
	matched := m.matchingArchetypes(fs)
	if len(matched) != 1 {
		t.Fatalf("got %d matching archetypes, want 1 (the pos-without-vel archetype)", len(matched))
	}
	if matched[0].Len() != 2 {
		t.Errorf("got %d entities in the matched archetype, want 2", matched[0].Len())
	}
}

func TestMatcherCacheInvalidatesOnNewArchetype(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	vel := RegisterComponent[Velocity](w, StorageTable)

	w.Spawn(1, pos)
	desc := NewQuery().Component(pos).Build()
	fs, _ := DeriveFetchState(w, desc)
	m := newMatcher(w)

	first := m.matchingArchetypes(fs)
	if len(first) != 1 {
		t.Fatalf("got %d archetypes, want 1", len(first))
	}

	w.Spawn(1, pos, vel)
	second := m.matchingArchetypes(fs)
	if len(second) != 2 {
		t.Fatalf("got %d archetypes after a new archetype was created, want 2", len(second))
	}
}

func TestMatcherOptionalComponentDoesNotRestrictMatch(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	health := RegisterComponent[Health](w, StorageSparseSet)

	w.Spawn(2, pos)
	w.Spawn(1, pos, health)

	desc := NewQuery().Component(pos).OptionalComponent(health).Build()
	fs, err := DeriveFetchState(w, desc)
	if err != nil {
		t.Fatalf("DeriveFetchState: %v", err)
	}
	m := newMatcher(w)
	matched := m.matchingArchetypes(fs)
	if len(matched) != 2 {
		t.Fatalf("an optional component should not restrict which archetypes match, got %d", len(matched))
	}
}
