package dynamic

import (
	"strings"

	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/observe"
)

// Chain is the setter chain of one record type, bound to a view of exactly
// Size slots and to the translation into the root buffer's event.
type Chain struct {
	typ   *Type
	slots observe.Slots[Event]
	wrap  func(Event) Event
}

// Bind binds a chain for t to slots. It panics if slots does not hold
// exactly t.Size() slots, like generated Bind functions.
func Bind(t *Type, slots observe.Slots[Event], wrap func(Event) Event) *Chain {
	observe.CheckSpan(slots, t.Size(), t.Name())
	return &Chain{typ: t, slots: slots, wrap: wrap}
}

// Type returns the record type the chain addresses.
func (c *Chain) Type() *Type {
	return c.typ
}

// Leaf returns the setter of the leaf field name.
func (c *Chain) Leaf(name string) (observe.FieldSetter[ir.IRValue], error) {
	ft, err := c.typ.field(name)
	if err != nil {
		return nil, err
	}
	if ft.shape.Nested != nil {
		return nil, &FieldError{Record: c.typ.Name(), Field: name, Reason: "is a nested record, not a leaf"}
	}
	wrap := c.wrap
	return observe.Leaf(c.slots, ft.rng.Offset, func(v ir.IRValue) Event {
		return wrap(Set{Field: name, Value: v})
	}), nil
}

// Record descends into the participating field name.
func (c *Chain) Record(name string) (*Chain, error) {
	ft, err := c.typ.field(name)
	if err != nil {
		return nil, err
	}
	if ft.shape.Nested == nil {
		return nil, &FieldError{Record: c.typ.Name(), Field: name, Reason: "is a leaf, not a nested record"}
	}
	if ft.nested == nil {
		return nil, &FieldError{Record: c.typ.Name(), Field: name, Reason: "external record, fields unknown"}
	}
	outer := c.wrap
	return Bind(ft.nested, c.slots.Sub(ft.rng.Offset, ft.rng.Span), func(ev Event) Event {
		return outer(Nested{Field: name, Inner: ev})
	}), nil
}

// Path resolves a dotted path such as "Bar.Foo.Field1" to a leaf setter.
func (c *Chain) Path(path string) (observe.FieldSetter[ir.IRValue], error) {
	parts := strings.Split(path, ".")
	cur := c
	for _, name := range parts[:len(parts)-1] {
		next, err := cur.Record(name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur.Leaf(parts[len(parts)-1])
}
