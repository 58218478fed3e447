package dynamic

import (
	"iter"

	"github.com/roach88/fieldobs/internal/layout"
	"github.com/roach88/fieldobs/observe"
)

// Observer keeps the newest pending change per slot of one record type.
type Observer struct {
	typ *Type
	buf *observe.Buffer[Event]
}

// NewObserver returns an observer of t with no pending events.
func NewObserver(t *Type) (*Observer, error) {
	if err := t.Layout().Check(); err != nil {
		return nil, err
	}
	return &Observer{typ: t, buf: observe.NewBuffer[Event](t.Size())}, nil
}

// Setters returns the root chain, which stores events as produced.
func (o *Observer) Setters() *Chain {
	return Bind(o.typ, o.buf.Slots(), observe.Identity[Event])
}

// Events yields the pending events in slot order.
func (o *Observer) Events() iter.Seq[Event] {
	return o.buf.Events()
}

// Indexed yields pending events with their slot.
func (o *Observer) Indexed() iter.Seq2[int, Event] {
	return observe.Indexed(o.buf.Slots())
}

// Pending returns the number of pending events.
func (o *Observer) Pending() int {
	return o.buf.Pending()
}

// ClearEvents discards every pending event.
func (o *Observer) ClearEvents() {
	o.buf.Clear()
}

// Slots exposes the backing view, for inspection.
func (o *Observer) Slots() observe.Slots[Event] {
	return o.buf.Slots()
}

// Leaves returns the slot layout the observer is indexed by.
func (o *Observer) Leaves() []layout.Leaf {
	return o.typ.Layout().Leaves()
}
