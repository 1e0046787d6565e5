package dynecs

// QueryDescription is the immutable, fully-built description of a
// dynamic query: an ordered parameter list plus a filter expression
// tree. It carries no reference to any World — the same description
// can be run against any world that has registered the component
// handles it names.
type QueryDescription struct {
	params []param
	filter filterExpr
}

// ParamCount returns the number of parameters in the query's item
// surface, in declaration order.
func (q QueryDescription) ParamCount() int {
	return len(q.params)
}
