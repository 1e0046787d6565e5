package dynecs

// paramFetchState is the per-parameter resolved form of a param: for
// Entity there is nothing further to resolve; for Component, the
// component's registration info is looked up once so the fetch engine
// never has to re-resolve a handle per row.
type paramFetchState struct {
	param param
	info  *componentInfo // nil for paramEntity
}

// FetchState is the fully-derived, world-bound form of a
// QueryDescription: one paramFetchState per parameter, in the same
// order as the description, plus the access declaration derived from
// both the parameter list and the filter tree, plus whether the query
// as a whole runs in dense (table) or sparse (archetype) iteration
// mode.
type FetchState struct {
	desc   QueryDescription
	params []paramFetchState
	access AccessDeclaration
	filter filterExpr
	layout Layout
	dense  bool
}

// DeriveFetchState resolves desc against world, producing a FetchState
// or one of UnknownComponentError / AliasConflictError /
// UnsatisfiableFilterError.
func DeriveFetchState(w *World, desc QueryDescription) (*FetchState, error) {
	fs := &FetchState{desc: desc, filter: desc.filter}
	fs.params = make([]paramFetchState, len(desc.params))

	allDense := true
	sawComponent := false

	for i, p := range desc.params {
		switch p.kind {
		case paramEntity:
			fs.params[i] = paramFetchState{param: p}
		case paramComponent:
			info, ok := w.byHandle[p.handle]
			if !ok {
				return nil, wrapTrace(UnknownComponentError{Handle: p.handle})
			}
			fs.params[i] = paramFetchState{param: p, info: info}

			sawComponent = true
			if info.storageKind != StorageTable {
				allDense = false
			}

			var err error
			if p.mutable {
				err = fs.access.addWrite(p.handle)
			} else {
				err = fs.access.addRead(p.handle)
			}
			if err != nil {
				return nil, err
			}

			if !p.optional {
				fs.layout = fs.layout.extend(info.layout)
			}
		}
	}

	if err := fs.filter.collectAccess(&fs.access, 0); err != nil {
		return nil, err
	}

	// Only the top-level conjunctive clauses are checked: under an Or,
	// With(h) beside Without(h) is satisfiable.
	if fs.filter.kind == filterAnd {
		var top AccessDeclaration
		for _, c := range fs.filter.children {
			switch c.kind {
			case filterWith:
				top.addWith(c.handle)
			case filterWithout:
				top.addWithout(c.handle)
			}
		}
		if top.with.ContainsAny(top.without) {
			return nil, wrapTrace(UnsatisfiableFilterError{Reason: "a component is required both present and absent"})
		}
	}

	if isUnsatisfiable(fs.filter, 0) {
		return nil, wrapTrace(UnsatisfiableFilterError{Reason: "filter contains an empty Or clause"})
	}

	// Dense mode (table iteration) applies only when every component
	// parameter, optional or not, is Table-backed; a query with no component
	// parameters at all (e.g. Entity-only) is vacuously dense, since
	// there is no sparse-backed parameter to force the slower path.
	fs.dense = allDense || !sawComponent

	return fs, nil
}

// isUnsatisfiable walks the filter tree looking for an Or node with no
// children, which can never match.
func isUnsatisfiable(f filterExpr, depth int) bool {
	if depth > maxFilterDepth {
		return false
	}
	switch f.kind {
	case filterOr:
		if len(f.children) == 0 {
			return true
		}
		for _, c := range f.children {
			if isUnsatisfiable(c, depth+1) {
				return true
			}
		}
	case filterAnd:
		for _, c := range f.children {
			if isUnsatisfiable(c, depth+1) {
				return true
			}
		}
	}
	return false
}

// Access returns the query's derived access declaration, for conflict
// checking against other in-flight queries.
func (fs *FetchState) Access() *AccessDeclaration {
	return &fs.access
}

// Dense reports whether this query runs in dense (table) iteration
// mode.
func (fs *FetchState) Dense() bool {
	return fs.dense
}

// archetypeAccess derives the read/write access this query actually
// contributes for one matched archetype: every mandatory component
// parameter's handle, plus each optional parameter's handle only when a
// carries that component at all. This is the archetype-scoped
// projection of fs.access that the borrow arbiter checks conflicts
// against, since two queries can declare access to the same component
// handle in general and still never touch the same archetype.
func (fs *FetchState) archetypeAccess(a *archetype) archetypeAccess {
	out := archetypeAccess{archetype: a.id}
	for _, pf := range fs.params {
		if pf.param.kind != paramComponent {
			continue
		}
		if pf.param.optional && !a.Contains(pf.param.handle) {
			continue
		}
		if pf.param.mutable {
			out.writes.Mark(uint32(pf.param.handle))
		} else {
			out.reads.Mark(uint32(pf.param.handle))
		}
	}
	return out
}
