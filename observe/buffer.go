package observe

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// Buffer is a heap-backed observer buffer for shapes only known at run time.
// Generated observers embed a fixed-size array instead.
type Buffer[E any] struct {
	slots Slots[E]
}

// NewBuffer returns a buffer of size unset slots.
func NewBuffer[E any](size int) *Buffer[E] {
	if size < 0 {
		panic(errors.AssertionFailedf("negative buffer size %d", size))
	}
	return &Buffer[E]{slots: make(Slots[E], size)}
}

// Slots returns the full backing view.
func (b *Buffer[E]) Slots() Slots[E] {
	return b.slots
}

// Len returns the number of slots.
func (b *Buffer[E]) Len() int {
	return len(b.slots)
}

// Events yields pending events in slot order.
func (b *Buffer[E]) Events() iter.Seq[E] {
	return Events(b.slots)
}

// Pending returns the number of set slots.
func (b *Buffer[E]) Pending() int {
	return Pending(b.slots)
}

// Clear resets all slots without reallocating.
func (b *Buffer[E]) Clear() {
	Clear(b.slots)
}
