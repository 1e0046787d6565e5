/*
Package dynecs provides a runtime-configured, reflection-based query
engine for an archetype ECS: queries whose parameter list and filters
are assembled from values at runtime rather than fixed at compile time
via generics.

Core Concepts:

  - World: owns component registration, archetypes, and entities.
  - ComponentHandle: an opaque identifier for a registered component type.
  - Builder: assembles a QueryDescription from component handles and
    With/Without/Or filter clauses.
  - QueryState: a built, world-bound query, ready to iterate.
  - Item: a type-erased query result, recovered with Downcast[T].

Basic Usage:

	w := dynecs.NewWorld(nil)
	position := dynecs.RegisterComponent[Position](w, dynecs.StorageTable)
	velocity := dynecs.RegisterComponent[Velocity](w, dynecs.StorageTable)

	_, _ = w.Spawn(100, position, velocity)

	desc := dynecs.NewQuery().
		MutComponent(position).
		Component(velocity).
		Build()

	qs, _ := w.QueryDynamic(desc)
	_ = w.BeginBorrow(qs)
	defer w.EndBorrow(qs)

	for qs.IterMut(); qs.Next(); {
		row := qs.Row()
		pos, _ := dynecs.Downcast[Position](row.Item(0))
		vel, _ := dynecs.Downcast[Velocity](row.Item(1))
		pos.X += vel.X
		pos.Y += vel.Y
	}

A query's storage-kind mix determines its iteration mode: one whose
component parameters are all Table-backed runs a dense, column-local
scan; one touching any SparseSet-backed component falls back to
per-entity sparse lookups. Either way the item order always matches the
query's declared parameter order.
*/
package dynecs
