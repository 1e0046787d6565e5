package dynecs

import "github.com/TheBitDrifter/mask"

// AccessDeclaration records which components a query reads, which it
// writes, and which it requires/excludes via filters. It exists
// independently of any one world so the conflict rules can be checked
// once, at fetch-state derivation, before any archetype has been matched.
type AccessDeclaration struct {
	reads   mask.Mask
	writes  mask.Mask
	with    mask.Mask
	without mask.Mask
}

// addRead records non-mutable access to handle, returning an
// AliasConflictError if the same handle already has mutable access.
func (a *AccessDeclaration) addRead(handle ComponentHandle) error {
	var m mask.Mask
	m.Mark(uint32(handle))
	if a.writes.ContainsAll(m) {
		return wrapTrace(AliasConflictError{Handle: handle})
	}
	a.reads.Mark(uint32(handle))
	return nil
}

// addWrite records mutable access to handle, returning an
// AliasConflictError if the same handle already has any access
// (mutable or not) — a second mutable borrow is exactly as much a
// conflict as a read alongside a write.
func (a *AccessDeclaration) addWrite(handle ComponentHandle) error {
	var m mask.Mask
	m.Mark(uint32(handle))
	if a.reads.ContainsAll(m) || a.writes.ContainsAll(m) {
		return wrapTrace(AliasConflictError{Handle: handle})
	}
	a.writes.Mark(uint32(handle))
	return nil
}

func (a *AccessDeclaration) addWith(handle ComponentHandle) {
	a.with.Mark(uint32(handle))
}

func (a *AccessDeclaration) addWithout(handle ComponentHandle) {
	a.without.Mark(uint32(handle))
}

// ConflictsWith reports whether two access declarations cannot be
// iterated concurrently: one's write set intersects the other's
// read-or-write set. Filter-only (with/without) access never conflicts,
// since a filter only constrains which archetypes match and never
// borrows any component data.
func (a *AccessDeclaration) ConflictsWith(other *AccessDeclaration) bool {
	if a.writes.ContainsAny(other.reads) || a.writes.ContainsAny(other.writes) {
		return true
	}
	if other.writes.ContainsAny(a.reads) || other.writes.ContainsAny(a.writes) {
		return true
	}
	return false
}

// archetypeAccess is the read/write access a single query contributes
// to one specific archetype, rather than to its component handles in
// general. Two queries can both declare access to the same component
// handle and still iterate concurrently without conflict, as long as
// the archetypes each of them actually matches never overlap — this is
// the finer-grained set the borrow arbiter checks conflicts against,
// built per matching archetype once a query has been matched (see
// FetchState.archetypeAccess and matcher.archetypeAccess).
type archetypeAccess struct {
	archetype archetypeID
	reads     mask.Mask
	writes    mask.Mask
}

// conflictsWith reports whether two per-archetype access sets, already
// known to name the same archetype, cannot be held concurrently.
func (a archetypeAccess) conflictsWith(other archetypeAccess) bool {
	if a.writes.ContainsAny(other.reads) || a.writes.ContainsAny(other.writes) {
		return true
	}
	if other.writes.ContainsAny(a.reads) || other.writes.ContainsAny(a.writes) {
		return true
	}
	return false
}
