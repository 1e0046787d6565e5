package dynecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// UnknownComponentError is returned when a query references a component
// handle that has never been registered against the world.
type UnknownComponentError struct {
	Handle ComponentHandle
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("dynecs: unknown component handle %d", e.Handle)
}

// AliasConflictError is returned when a query's access declaration is
// internally inconsistent, i.e. it requests mutable access to a
// component handle it also accesses (mutably or immutably), or
// conflicts with another live iterator's declared access over the same
// world.
type AliasConflictError struct {
	Handle ComponentHandle
}

func (e AliasConflictError) Error() string {
	return fmt.Sprintf("dynecs: alias conflict on component handle %d: mutable access overlaps another access to it", e.Handle)
}

// UnsatisfiableFilterError is returned when a filter expression can never
// match any archetype: because the query's top-level clauses require a
// handle both present and absent, because it contains an Or with no
// sub-filters, or because the expression tree is nested beyond the
// supported depth.
type UnsatisfiableFilterError struct {
	Reason string
}

func (e UnsatisfiableFilterError) Error() string {
	return fmt.Sprintf("dynecs: unsatisfiable filter: %s", e.Reason)
}

// InvariantViolation signals that the world was mutated mid-iteration or
// that storage reached an internally inconsistent state. It is not a
// recoverable runtime condition; callers only ever observe it via panic.
type InvariantViolation struct {
	Reason string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("dynecs: invariant violation: %s", e.Reason)
}

// wrapTrace annotates err with a call-site trace via bark, returning nil
// unchanged so call sites can `return wrapTrace(err)` uniformly.
func wrapTrace(err error) error {
	if err == nil {
		return nil
	}
	return bark.AddTrace(err)
}

// panicInvariant raises an InvariantViolation; used at the few points
// where the contract says mid-iteration failure is out of scope and the
// only sound response left is to stop the world.
func panicInvariant(reason string) {
	panic(bark.AddTrace(InvariantViolation{Reason: reason}))
}
