package ecs

import "github.com/rotisserie/eris"

// Buffer records structural changes requested while a search is iterating. The scheduler applies
// the buffer, in insertion order, after each system returns.
//
// Example:
//
//	for eid, mover := range state.Movers.Iter() {
//	    if blocked(mover.Position.Get()) {
//	        ecs.BufferRemove[Intent](state.Buffer(), eid)
//	    }
//	}
type Buffer struct {
	ops []bufferedOp
}

type bufferedOp struct {
	desc  string
	eid   EntityID
	apply func(*WorldState) error
}

// BufferSet records setting component on eid.
func BufferSet[T Component](b *Buffer, eid EntityID, component T) {
	b.ops = append(b.ops, bufferedOp{
		desc:  "set " + component.Name(),
		eid:   eid,
		apply: func(ws *WorldState) error { return Set(ws, eid, component) },
	})
}

// BufferRemove records removing component T from eid.
func BufferRemove[T Component](b *Buffer, eid EntityID) {
	var zero T
	b.ops = append(b.ops, bufferedOp{
		desc:  "remove " + zero.Name(),
		eid:   eid,
		apply: func(ws *WorldState) error { return Remove[T](ws, eid) },
	})
}

// Destroy records destroying eid.
func (b *Buffer) Destroy(eid EntityID) {
	b.ops = append(b.ops, bufferedOp{
		desc:  "destroy",
		eid:   eid,
		apply: func(ws *WorldState) error { return Destroy(ws, eid) },
	})
}

// Len returns the number of pending operations.
func (b *Buffer) Len() int {
	return len(b.ops)
}

func (b *Buffer) reset() {
	b.ops = b.ops[:0]
}

// Flush applies every pending operation in order and empties the buffer. The first failing
// operation stops the flush; the remaining operations are dropped.
func (b *Buffer) Flush(ws *WorldState) error {
	ops := b.ops
	b.ops = b.ops[:0]
	for _, op := range ops {
		if err := op.apply(ws); err != nil {
			return eris.Wrapf(err, "failed to %s on entity %d", op.desc, op.eid)
		}
	}
	return nil
}
