package dynecs

import "github.com/TheBitDrifter/mask"

// QueryDynamic derives fetch state for desc against w and returns a
// ready-to-iterate QueryState. The world itself never locks anything:
// aliasing safety across concurrently-active queries is the caller's
// (an outer scheduler's) responsibility. BeginBorrow/EndBorrow below are
// the minimal hooks that discipline needs in order to be testable: a
// list of the access declarations currently checked out, checked for
// conflicts at registration time rather than enforced with an actual
// lock.
func (w *World) QueryDynamic(desc QueryDescription) (*QueryState, error) {
	fs, err := DeriveFetchState(w, desc)
	if err != nil {
		return nil, err
	}
	return &QueryState{
		world:   w,
		fs:      fs,
		matcher: newMatcher(w),
	}, nil
}

// activeBorrow is one query's registered borrow: its global access
// declaration (used to find and remove the entry in EndBorrow) plus its
// current per-archetype access sets (used for conflict detection).
type activeBorrow struct {
	decl       *AccessDeclaration
	archetypes []archetypeAccess
}

// BeginBorrow checks qs's access against every already-active borrow,
// archetype by archetype, returning an AliasConflictError naming one of
// the offending component handles if any matched archetype is
// contested. Checking per archetype rather than per declaration lets
// two queries share a component handle in general and still run
// concurrently, as long as the archetypes they actually match never
// overlap. On success the borrow is registered as active until
// EndBorrow is called with the same QueryState.
func (w *World) BeginBorrow(qs *QueryState) error {
	w.borrowMu.Lock()
	defer w.borrowMu.Unlock()

	access := qs.matcher.archetypeAccess(qs.fs)
	for _, active := range w.activeBorrows {
		if handle, conflict := conflictingHandle(w, access, active.archetypes); conflict {
			return wrapTrace(AliasConflictError{Handle: handle})
		}
	}
	w.activeBorrows = append(w.activeBorrows, activeBorrow{decl: qs.fs.Access(), archetypes: access})
	return nil
}

// conflictingHandle compares two per-archetype access sets for every
// archetype common to both, returning one component handle responsible
// for the first conflict found.
func conflictingHandle(w *World, a, b []archetypeAccess) (ComponentHandle, bool) {
	byArchetype := make(map[archetypeID]archetypeAccess, len(b))
	for _, y := range b {
		byArchetype[y.archetype] = y
	}
	for _, x := range a {
		y, ok := byArchetype[x.archetype]
		if !ok || !x.conflictsWith(y) {
			continue
		}
		for _, info := range w.components {
			var m mask.Mask
			m.Mark(uint32(info.handle))
			xWrite, xRead := x.writes.ContainsAll(m), x.reads.ContainsAll(m)
			yWrite, yRead := y.writes.ContainsAll(m), y.reads.ContainsAll(m)
			if (xWrite && (yRead || yWrite)) || (yWrite && (xRead || xWrite)) {
				return info.handle, true
			}
		}
	}
	return 0, false
}

// EndBorrow releases the borrow qs registered via BeginBorrow. Calling
// it without a matching BeginBorrow, or twice, releases nothing. Whenever
// no active borrow remains after the call, any structural mutations
// deferred via EnqueueDestroy are applied.
func (w *World) EndBorrow(qs *QueryState) error {
	w.borrowMu.Lock()
	target := qs.fs.Access()
	for i, active := range w.activeBorrows {
		if active.decl == target {
			w.activeBorrows = append(w.activeBorrows[:i], w.activeBorrows[i+1:]...)
			break
		}
	}
	empty := len(w.activeBorrows) == 0
	w.borrowMu.Unlock()

	if empty {
		return w.drainDeferred()
	}
	return nil
}
