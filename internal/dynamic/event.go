package dynamic

import (
	"strings"

	"github.com/roach88/fieldobs/internal/ir"
)

// Event is a change to one field of a record.
type Event interface {
	isEvent()
}

// Set assigns Value to the leaf field Field.
type Set struct {
	Field string
	Value ir.IRValue
}

// Nested carries a change inside the participating field Field.
type Nested struct {
	Field string
	Inner Event
}

func (Set) isEvent()    {}
func (Nested) isEvent() {}

// Unwrap returns the field path an event addresses and the value it sets.
// A Nested with a nil Inner yields ok == false.
func Unwrap(ev Event) (path []string, value ir.IRValue, ok bool) {
	for {
		switch e := ev.(type) {
		case Set:
			return append(path, e.Field), e.Value, true
		case Nested:
			path = append(path, e.Field)
			ev = e.Inner
		default:
			return path, nil, false
		}
	}
}

// String renders an event as "Bar.Foo.Field1=3".
func String(ev Event) string {
	path, value, ok := Unwrap(ev)
	if !ok {
		return strings.Join(path, ".") + "=<none>"
	}
	return strings.Join(path, ".") + "=" + ir.Format(value)
}
