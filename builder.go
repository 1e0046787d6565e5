package dynecs

// Builder assembles a QueryDescription one parameter/filter clause at a
// time. Each method returns the builder itself so calls chain; Build()
// finalizes the parameter order and filter tree.
type Builder struct {
	params    []param
	andFilter []filterExpr
}

// NewQuery starts a new, empty query builder.
func NewQuery() *Builder {
	return &Builder{}
}

// Entity appends an Entity parameter: the row's own handle.
func (b *Builder) Entity() *Builder {
	b.params = append(b.params, paramEntityOf())
	return b
}

// Component appends a read-only component parameter.
func (b *Builder) Component(handle ComponentHandle) *Builder {
	b.params = append(b.params, paramComponentOf(handle, false, false))
	return b
}

// MutComponent appends a mutable component parameter.
func (b *Builder) MutComponent(handle ComponentHandle) *Builder {
	b.params = append(b.params, paramComponentOf(handle, true, false))
	return b
}

// OptionalComponent appends a read-only component parameter that yields
// ComponentNotPresent on rows lacking it instead of excluding them.
func (b *Builder) OptionalComponent(handle ComponentHandle) *Builder {
	b.params = append(b.params, paramComponentOf(handle, false, true))
	return b
}

// OptionalMutComponent appends a mutable, optional component parameter.
func (b *Builder) OptionalMutComponent(handle ComponentHandle) *Builder {
	b.params = append(b.params, paramComponentOf(handle, true, true))
	return b
}

// With requires handle to be present, without adding it to the item
// surface.
func (b *Builder) With(handle ComponentHandle) *Builder {
	b.andFilter = append(b.andFilter, filterWithOf(handle))
	return b
}

// Without requires handle to be absent.
func (b *Builder) Without(handle ComponentHandle) *Builder {
	b.andFilter = append(b.andFilter, filterWithoutOf(handle))
	return b
}

// Or adds a disjunction over the given sub-filters, ANDed with every
// other clause on this builder. An empty call (no sub-filters) makes
// the whole query unsatisfiable — see filterExpr.matchesArchetype.
func (b *Builder) Or(sub ...*Builder) *Builder {
	children := make([]filterExpr, 0, len(sub))
	for _, s := range sub {
		children = append(children, filterAndOf(s.andFilter...))
	}
	b.andFilter = append(b.andFilter, filterOrOf(children...))
	return b
}

// Build finalizes the description. Optional-component parameters that
// duplicate a With/Without on the same handle are left as declared:
// the builder does not second-guess the caller's combination, only
// fetch-state derivation rejects genuine conflicts (unknown handles,
// aliasing).
func (b *Builder) Build() QueryDescription {
	return QueryDescription{
		params: append([]param(nil), b.params...),
		filter: filterAndOf(b.andFilter...),
	}
}
