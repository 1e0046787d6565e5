package dynecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMatchingSoundnessAndCompleteness checks that a query matches
// exactly the set of entities whose archetype carries every mandatory
// component and satisfies the filter - no more, no fewer.
func TestMatchingSoundnessAndCompleteness(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	vel := RegisterComponent[Velocity](w, StorageTable)
	tag := RegisterComponent[Tag](w, StorageSparseSet)

	posOnly, err := w.Spawn(2, pos)
	require.NoError(t, err)
	posVel, err := w.Spawn(3, pos, vel)
	require.NoError(t, err)
	posVelTag, err := w.Spawn(4, pos, vel, tag)
	require.NoError(t, err)

	desc := NewQuery().Entity().Component(pos).With(vel).Without(tag).Build()
	qs, err := w.QueryDynamic(desc)
	require.NoError(t, err)
	require.NoError(t, w.BeginBorrow(qs))
	defer w.EndBorrow(qs)

	got := make(map[EntityHandle]bool)
	for qs.IterMut(); qs.Next(); {
		got[qs.Row().Item(0).Entity()] = true
	}

	for _, e := range posVel {
		require.True(t, got[e], "expected pos+vel entity to match")
	}
	for _, e := range posOnly {
		require.False(t, got[e], "pos-only entity lacks vel, should not match")
	}
	for _, e := range posVelTag {
		require.False(t, got[e], "pos+vel+tag entity is excluded by Without(tag)")
	}
	require.Len(t, got, len(posVel))
}

// TestParameterOrderPreservation checks that every row's items appear in
// the exact order the builder declared its parameters, regardless of how
// many parameters or what mix of kinds are used.
func TestParameterOrderPreservation(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	vel := RegisterComponent[Velocity](w, StorageTable)
	health := RegisterComponent[Health](w, StorageSparseSet)

	w.Spawn(3, pos, vel, health)

	desc := NewQuery().Component(vel).Entity().MutComponent(pos).OptionalComponent(health).Build()
	qs, err := w.QueryDynamic(desc)
	require.NoError(t, err)
	require.NoError(t, w.BeginBorrow(qs))
	defer w.EndBorrow(qs)

	rows := 0
	for qs.IterMut(); qs.Next(); {
		row := qs.Row()
		require.Equal(t, 4, row.Len())
		_, ok := Downcast[Velocity](row.Item(0))
		require.True(t, ok, "item 0 should be Velocity")
		require.True(t, row.Item(1).IsEntity(), "item 1 should be Entity")
		_, ok = Downcast[Position](row.Item(2))
		require.True(t, ok, "item 2 should be Position")
		require.False(t, row.Item(3).ComponentNotPresent(), "item 3 should be the present Health")
		rows++
	}
	require.Equal(t, 3, rows)
}

// TestDenseAndSparseIterationProduceTheSameLogicalResult checks that
// swapping a component's storage kind between Table and SparseSet
// changes which iteration mode a query runs in, but not how many
// entities it visits or which values it produces.
func TestDenseAndSparseIterationProduceTheSameLogicalResult(t *testing.T) {
	run := func(kind StorageKind) map[EntityHandle]int {
		w := newFixtureWorld()
		health := RegisterComponent[Health](w, kind)
		entities, err := w.Spawn(5, health)
		require.NoError(t, err)

		desc := NewQuery().Entity().MutComponent(health).Build()
		qs, err := w.QueryDynamic(desc)
		require.NoError(t, err)
		require.Equal(t, kind == StorageTable, qs.fs.Dense(), "iteration mode should follow the component's storage kind")
		require.NoError(t, w.BeginBorrow(qs))
		defer w.EndBorrow(qs)

		_ = entities
		i := 0
		for qs.IterMut(); qs.Next(); {
			row := qs.Row()
			h, ok := Downcast[Health](row.Item(1))
			require.True(t, ok)
			h.HP = i * 10
			i++
		}

		result := make(map[EntityHandle]int)
		qs2, err := w.QueryDynamic(NewQuery().Entity().Component(health).Build())
		require.NoError(t, err)
		require.NoError(t, w.BeginBorrow(qs2))
		defer w.EndBorrow(qs2)
		for qs2.IterMut(); qs2.Next(); {
			row := qs2.Row()
			h, ok := Downcast[Health](row.Item(1))
			require.True(t, ok)
			result[row.Item(0).Entity()] = h.HP
		}
		return result
	}

	dense := run(StorageTable)
	sparse := run(StorageSparseSet)
	require.Len(t, dense, 5)
	require.Len(t, sparse, 5)

	denseValues := make(map[int]bool)
	for _, v := range dense {
		denseValues[v] = true
	}
	sparseValues := make(map[int]bool)
	for _, v := range sparse {
		sparseValues[v] = true
	}
	require.Equal(t, denseValues, sparseValues, "the same assignment pattern should produce the same value set regardless of storage kind")
}

// TestDowncastSoundness checks that Downcast rejects a type mismatch
// instead of reinterpreting memory.
func TestDowncastSoundness(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	w.Spawn(1, pos)

	desc := NewQuery().Component(pos).Build()
	qs, err := w.QueryDynamic(desc)
	require.NoError(t, err)
	require.NoError(t, w.BeginBorrow(qs))
	defer w.EndBorrow(qs)

	require.True(t, qs.IterMut().Next())
	item := qs.Row().Item(0)

	_, ok := Downcast[Velocity](item)
	require.False(t, ok, "downcasting a Position item to Velocity should fail")

	_, ok = Downcast[Position](item)
	require.True(t, ok, "downcasting a Position item to Position should succeed")
}

// TestQueryIdempotence checks that deriving fetch state for the same
// description twice, and iterating each independently, yields the same
// entity set both times.
func TestQueryIdempotence(t *testing.T) {
	w := newFixtureWorld()
	pos := RegisterComponent[Position](w, StorageTable)
	entities, err := w.Spawn(4, pos)
	require.NoError(t, err)

	desc := NewQuery().Entity().Build()

	run := func() []EntityHandle {
		qs, err := w.QueryDynamic(desc)
		require.NoError(t, err)
		require.NoError(t, w.BeginBorrow(qs))
		defer w.EndBorrow(qs)
		var got []EntityHandle
		for qs.IterMut(); qs.Next(); {
			got = append(got, qs.Row().Item(0).Entity())
		}
		return got
	}

	first := run()
	second := run()
	require.ElementsMatch(t, entities, first)
	require.ElementsMatch(t, first, second)
}
