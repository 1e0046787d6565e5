package dynecs

// iterationPhase names the states of the iteration driver's state
// machine: Ready (a QueryState fresh off QueryDynamic) -> Iterating
// (set by IterMut, which restarts from the first matched archetype) ->
// Done (exhausted, or no archetype matched). There is no separate "fetch state not
// yet derived" phase, since QueryDynamic only ever returns a QueryState
// with its fetch state already derived.
type iterationPhase uint8

const (
	phaseReady iterationPhase = iota
	phaseIterating
	phaseDone
)

// QueryState is a built, world-bound dynamic query: the derived fetch
// state plus everything the iteration driver needs to walk every
// matching archetype exactly once.
type QueryState struct {
	world   *World
	fs      *FetchState
	matcher *matcher

	phase      iterationPhase
	archetypes []*archetype
	archIdx    int
	rowIdx     int
	engine     *fetchEngine
}

// IterMut restarts iteration from the first matching archetype,
// returning the same *QueryState for chaining. A QueryState may be
// restarted any number of times, yielding the same result each time, as
// long as no other iteration over a conflicting access is concurrently
// active — see World.BeginBorrow.
func (qs *QueryState) IterMut() *QueryState {
	qs.archetypes = qs.matcher.matchingArchetypes(qs.fs)
	qs.archIdx = 0
	qs.rowIdx = -1
	qs.engine = newFetchEngine(qs.fs)
	qs.phase = phaseIterating
	if len(qs.archetypes) > 0 {
		qs.engine.setArchetype(qs.archetypes[0])
	} else {
		qs.phase = phaseDone
	}
	return qs
}

// Next advances to the next matching row, returning false once every
// matching archetype has been exhausted (phase -> Done). Callers must
// call Next before the first Row().
func (qs *QueryState) Next() bool {
	if qs.phase == phaseDone {
		return false
	}
	for {
		a := qs.archetypes[qs.archIdx]
		qs.rowIdx++
		if qs.rowIdx < a.Len() {
			return true
		}
		qs.archIdx++
		if qs.archIdx >= len(qs.archetypes) {
			qs.phase = phaseDone
			return false
		}
		qs.rowIdx = -1
		qs.engine.setArchetype(qs.archetypes[qs.archIdx])
	}
}

// Row returns the current row's parameter-ordered item surface.
// Dense-mode queries fetch through tableFetch, sparse-mode through
// archetypeFetch — the only difference the caller ever observes is
// which column-resolution path ran.
func (qs *QueryState) Row() QueryRow {
	return QueryRow{qs: qs, row: qs.rowIdx}
}

// QueryRow is one matched row's parameter-ordered item surface.
type QueryRow struct {
	qs  *QueryState
	row int
}

// Len returns the number of parameters in the row, matching the
// query's declared parameter count.
func (r QueryRow) Len() int {
	return len(r.qs.engine.params)
}

// Item returns parameter i's item for this row, in the same order the
// query declared its parameters.
func (r QueryRow) Item(i int) Item {
	if r.qs.fs.dense {
		return r.qs.engine.tableFetch(i, r.row)
	}
	return r.qs.engine.archetypeFetch(i, r.row)
}

// Entity returns the row's entity handle. It is always resolvable
// regardless of whether the query declared an Entity parameter, since
// the fetch engine tracks the row -> entity mapping for every
// archetype it visits.
func (r QueryRow) Entity() EntityHandle {
	return r.qs.engine.entities[r.row]
}
