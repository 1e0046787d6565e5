package dynecs

import "github.com/TheBitDrifter/mask"

// matcher caches the archetype list a FetchState matches against a
// world, invalidating the cache whenever the world gains a new
// archetype. A matcher is owned by exactly one QueryState; it is not
// safe to share across worlds.
type matcher struct {
	world      *World
	generation uint64
	matched    []*archetype
}

func newMatcher(w *World) *matcher {
	return &matcher{world: w}
}

// matchingArchetypes returns every archetype in the world whose
// component set satisfies both the query's mandatory (non-optional)
// component parameters and its filter tree, rescanning only when new
// archetypes have been registered since the last call.
func (m *matcher) matchingArchetypes(fs *FetchState) []*archetype {
	if m.matched != nil && m.generation == m.world.ArchetypeGeneration() {
		return m.matched
	}

	var required mask.Mask
	for _, pf := range fs.params {
		if pf.param.kind == paramComponent && !pf.param.optional {
			required.Mark(uint32(pf.param.handle))
		}
	}

	matched := make([]*archetype, 0, len(m.world.Archetypes()))
	for _, a := range m.world.Archetypes() {
		if !a.full.ContainsAll(required) {
			continue
		}
		if !fs.filter.matchesArchetype(a.full, 0) {
			continue
		}
		matched = append(matched, a)
	}

	m.matched = matched
	m.generation = m.world.ArchetypeGeneration()
	return matched
}

// archetypeAccess returns fs's per-archetype access set for every
// archetype it currently matches, for the borrow arbiter to check
// conflicts at archetype granularity instead of treating any shared
// component handle as a conflict regardless of which archetypes are
// actually in play.
func (m *matcher) archetypeAccess(fs *FetchState) []archetypeAccess {
	archetypes := m.matchingArchetypes(fs)
	out := make([]archetypeAccess, len(archetypes))
	for i, a := range archetypes {
		out[i] = fs.archetypeAccess(a)
	}
	return out
}
