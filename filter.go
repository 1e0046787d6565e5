package dynecs

import "github.com/TheBitDrifter/mask"

// filterKind distinguishes the cases of a query's filter expression
// tree: a single required or excluded component, or a conjunction/
// disjunction of sub-expressions.
type filterKind uint8

const (
	filterWith filterKind = iota
	filterWithout
	filterAnd
	filterOr
)

// filterExpr is a node in a query's filter tree. With/Without carry a
// single component handle; And/Or carry children. With and Without
// share one node shape rather than being separate types, since
// "present" XOR "absent" is exactly the match rule both need.
type filterExpr struct {
	kind     filterKind
	handle   ComponentHandle
	children []filterExpr
}

func filterWithOf(handle ComponentHandle) filterExpr {
	return filterExpr{kind: filterWith, handle: handle}
}

func filterWithoutOf(handle ComponentHandle) filterExpr {
	return filterExpr{kind: filterWithout, handle: handle}
}

func filterAndOf(children ...filterExpr) filterExpr {
	return filterExpr{kind: filterAnd, children: children}
}

func filterOrOf(children ...filterExpr) filterExpr {
	return filterExpr{kind: filterOr, children: children}
}

// maxFilterDepth guards against pathological caller-built trees turning
// recursive evaluation into a stack overflow; no legitimate builder
// output nests anywhere near this deep.
const maxFilterDepth = 64

// collectAccess folds this filter's with/without requirements into decl,
// depth-guarded.
func (f filterExpr) collectAccess(decl *AccessDeclaration, depth int) error {
	if depth > maxFilterDepth {
		return wrapTrace(UnsatisfiableFilterError{Reason: "filter expression nested too deeply"})
	}
	switch f.kind {
	case filterWith:
		decl.addWith(f.handle)
	case filterWithout:
		decl.addWithout(f.handle)
	case filterAnd, filterOr:
		for _, c := range f.children {
			if err := c.collectAccess(decl, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// matchesArchetype evaluates the filter against an archetype's
// component mask. An empty Or is unsatisfiable: "match any of these
// sub-filters" over zero sub-filters has nothing that could make it
// true, so it evaluates false — the conservative reading of "match one
// of nothing".
func (f filterExpr) matchesArchetype(full mask.Mask, depth int) bool {
	if depth > maxFilterDepth {
		panicInvariant("filter expression nested too deeply")
	}
	switch f.kind {
	case filterWith:
		var m mask.Mask
		m.Mark(uint32(f.handle))
		return full.ContainsAll(m)
	case filterWithout:
		var m mask.Mask
		m.Mark(uint32(f.handle))
		return full.ContainsNone(m)
	case filterAnd:
		for _, c := range f.children {
			if !c.matchesArchetype(full, depth+1) {
				return false
			}
		}
		return true
	case filterOr:
		for _, c := range f.children {
			if c.matchesArchetype(full, depth+1) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// matchesTable filters are resolved entirely by archetype membership;
// no per-row table-level check is needed, since a filter carries no
// data to fetch and so has nothing further to decide once an archetype
// has already matched.
func (f filterExpr) matchesTable() bool {
	return true
}
