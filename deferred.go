package dynecs

// deferredOp is one pending structural mutation, queued because it
// arrived while a query held an active borrow on the world: "queue
// while locked, drain once unlocked". Represented as plain closures
// rather than a family of operation structs, since every deferred
// mutation here already routes through World's own exported methods.
type deferredOp func(*World) error

// EnqueueDestroy queues destruction of the given entities instead of
// applying it immediately. The queue is applied by the next EndBorrow
// call that leaves no active borrow; entities queued while no borrow is
// active stay queued until such a call. Use this from inside a row-processing loop where calling Destroy
// directly would structurally mutate a table the active iteration is
// still walking.
func (w *World) EnqueueDestroy(entities ...EntityHandle) {
	w.borrowMu.Lock()
	defer w.borrowMu.Unlock()
	w.deferred = append(w.deferred, func(world *World) error {
		return world.Destroy(entities...)
	})
}

// drainDeferred applies every queued operation, in FIFO order, and
// clears the queue, returning the first error any of them reported.
// Called by EndBorrow once the last active borrow is released.
func (w *World) drainDeferred() error {
	ops := w.deferred
	w.deferred = nil
	var first error
	for _, op := range ops {
		if err := op(w); err != nil && first == nil {
			first = err
		}
	}
	return first
}
