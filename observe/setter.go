package observe

import "github.com/cockroachdb/errors"

// FieldSetter is a place a single value of type V can be written to.
type FieldSetter[V any] interface {
	Set(value V)
}

// leafSetter writes into slots[index]. The index is captured once, at
// construction, and never recomputed.
type leafSetter[V, E any] struct {
	slots Slots[E]
	index int
	wrap  func(V) E
}

func (l leafSetter[V, E]) Set(value V) {
	l.slots[l.index].Put(l.wrap(value))
}

// Leaf returns a FieldSetter bound to slots[index]. wrap translates the raw
// value into the event type stored by the root buffer, applying every
// enclosing case in one step.
func Leaf[V, E any](slots Slots[E], index int, wrap func(V) E) FieldSetter[V] {
	if index < 0 || index >= len(slots) {
		panic(errors.AssertionFailedf("slot %d out of bounds for view of %d slots", index, len(slots)))
	}
	return leafSetter[V, E]{slots: slots, index: index, wrap: wrap}
}

// Identity is the root translation: events are stored as produced.
func Identity[E any](ev E) E {
	return ev
}

// Wrap composes a case constructor with an outer translation, yielding the
// translation handed to a nested setter chain.
func Wrap[In, Mid, Out any](inner func(In) Mid, outer func(Mid) Out) func(In) Out {
	return func(v In) Out {
		return outer(inner(v))
	}
}

// SetterFunc adapts a function to FieldSetter.
type SetterFunc[V any] func(V)

// Set calls f(value).
func (f SetterFunc[V]) Set(value V) {
	f(value)
}
