package observe

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// Slot holds at most one pending event.
type Slot[E any] struct {
	event E
	set   bool
}

// Get returns the pending event and whether the slot is set.
func (s *Slot[E]) Get() (E, bool) {
	return s.event, s.set
}

// Put stores ev, replacing whatever was pending.
func (s *Slot[E]) Put(ev E) {
	s.event = ev
	s.set = true
}

// Reset marks the slot unset and drops the pending event.
func (s *Slot[E]) Reset() {
	var zero E
	s.event = zero
	s.set = false
}

// IsSet reports whether the slot holds an event.
func (s *Slot[E]) IsSet() bool {
	return s.set
}

// Slots is a mutable view over a contiguous run of slots. It never owns its
// backing array.
type Slots[E any] []Slot[E]

// Len returns the number of slots in the view.
func (s Slots[E]) Len() int {
	return len(s)
}

// Sub returns the view [offset, offset+span). The result is capacity-clamped
// so that appends or reslicing cannot reach neighbouring fields.
//
// Sub panics if the range does not fit. With generated offsets this only
// happens when a variant size was declared inconsistently.
func (s Slots[E]) Sub(offset, span int) Slots[E] {
	if offset < 0 || span < 0 || offset+span > len(s) {
		panic(errors.AssertionFailedf(
			"slot range [%d,%d) out of bounds for view of %d slots", offset, offset+span, len(s)))
	}
	return s[offset : offset+span : offset+span]
}

// CheckSpan asserts that s is exactly size slots long. Generated Bind
// functions call it before handing the view to a setter chain.
func CheckSpan[E any](s Slots[E], size int, record string) {
	if len(s) != size {
		panic(errors.AssertionFailedf(
			"%s setters bound to %d slots, variant size is %d", record, len(s), size))
	}
}

// Events yields every set slot's event in ascending slot order. Unset slots
// are skipped. The sequence may be iterated any number of times.
func Events[E any](s Slots[E]) iter.Seq[E] {
	return func(yield func(E) bool) {
		for i := range s {
			if !s[i].set {
				continue
			}
			if !yield(s[i].event) {
				return
			}
		}
	}
}

// Indexed yields (slot index, event) for every set slot in ascending order.
func Indexed[E any](s Slots[E]) iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i := range s {
			if !s[i].set {
				continue
			}
			if !yield(i, s[i].event) {
				return
			}
		}
	}
}

// Pending returns the number of set slots.
func Pending[E any](s Slots[E]) int {
	n := 0
	for i := range s {
		if s[i].set {
			n++
		}
	}
	return n
}

// Clear resets every slot. The backing array is kept.
func Clear[E any](s Slots[E]) {
	for i := range s {
		s[i].Reset()
	}
}
