package gen

import (
	"strings"

	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/layout"
	"github.com/roach88/fieldobs/internal/naming"
)

// field is one direct field with everything its declarations need.
type field struct {
	ir.FieldShape
	slot  string // slot constant
	event string // event case
	value string // event case payload type
	span  string // span expression: "1" or the nested size constant

	nested *naming.Record // identifiers of a nested record
	qual   func(string) string
}

func (g *generator) fields(rec *ir.RecordShape) []field {
	ids := naming.ForRecord(rec.Name)
	out := make([]field, len(rec.Fields))
	for i, f := range rec.Fields {
		fd := field{
			FieldShape: f,
			slot:       ids.Slot(f.Name),
			event:      ids.Case(f.Name),
			value:      f.Type,
			span:       "1",
			qual:       func(s string) string { return s },
		}
		if ref := f.Nested; ref != nil {
			nested := naming.ForRecord(ref.Name)
			fd.nested = &nested
			fd.qual = ref.Qualified
			fd.value = ref.Qualified(nested.Event)
			fd.span = ref.Qualified(nested.Size)
			if ref.External() {
				g.addImport(ref.Package)
			}
		}
		out[i] = fd
	}
	return out
}

func (g *generator) record(rec *ir.RecordShape, l *layout.Layout) {
	ids := naming.ForRecord(rec.Name)
	fields := g.fields(rec)

	if g.schema.DeclareTypes {
		g.declareStruct(rec)
	}
	g.constants(ids, fields, l)
	g.events(ids, fields)
	g.apply(ids, fields)
	g.setters(ids, fields)
	g.observer(ids)
}

func (g *generator) declareStruct(rec *ir.RecordShape) {
	g.p("")
	if rec.Doc != "" {
		for line := range strings.SplitSeq(strings.TrimSpace(rec.Doc), "\n") {
			g.p("// %s", strings.TrimSpace(line))
		}
	}
	g.p("type %s struct {", rec.Name)
	for _, f := range rec.Fields {
		if f.Tag != "" {
			g.p("\t%s %s `%s`", f.Name, f.Type, f.Tag)
		} else {
			g.p("\t%s %s", f.Name, f.Type)
		}
	}
	g.p("}")
}

// constants writes the size constant, the slot offsets, and the assertions
// that the offsets cover exactly the size. The assertions convert to uint,
// so a negative difference in either direction fails to compile.
func (g *generator) constants(ids naming.Record, fields []field, l *layout.Layout) {
	g.p("")
	g.p("// %s is the number of slots %s flattens to.", ids.Size, article(ids.Type))
	g.p("const %s = %d", ids.Size, l.Size)

	end := "0"
	if len(fields) > 0 {
		g.p("")
		g.p("const (")
		for i, f := range fields {
			if i == 0 {
				g.p("\t%s = 0", f.slot)
				continue
			}
			prev := fields[i-1]
			g.p("\t%s = %s + %s", f.slot, prev.slot, prev.span)
		}
		g.p(")")
		last := fields[len(fields)-1]
		end = last.slot + " + " + last.span
	}
	g.p("")
	g.p("const _ = uint(%s - (%s))", ids.Size, end)
	g.p("const _ = uint((%s) - %s)", end, ids.Size)
}

func (g *generator) events(ids naming.Record, fields []field) {
	g.p("")
	g.p("// %s is a change to one field of %s.", ids.Event, article(ids.Type))
	g.p("type %s interface {", ids.Event)
	g.p("\tis%s()", ids.Event)
	g.p("}")

	for _, f := range fields {
		g.p("")
		if f.nested != nil {
			g.p("// %s carries a change inside %s.%s.", f.event, ids.Type, f.Name)
		} else {
			g.p("// %s sets %s.%s.", f.event, ids.Type, f.Name)
		}
		g.p("type %s struct{ Value %s }", f.event, f.value)
	}
	if len(fields) > 0 {
		g.p("")
	}
	for _, f := range fields {
		g.p("func (%s) is%s() {}", f.event, ids.Event)
	}
}

func (g *generator) apply(ids naming.Record, fields []field) {
	g.p("")
	g.p("// Apply replays ev onto r. A nil event is a no-op.")
	if len(fields) == 0 {
		g.p("func (*%s) Apply(%s) {}", ids.Type, ids.Event)
		return
	}
	g.p("func (r *%s) Apply(ev %s) {", ids.Type, ids.Event)
	g.p("\tswitch ev := ev.(type) {")
	for _, f := range fields {
		g.p("\tcase %s:", f.event)
		if f.nested != nil {
			g.p("\t\tr.%s.Apply(ev.Value)", f.Name)
		} else {
			g.p("\t\tr.%s = ev.Value", f.Name)
		}
	}
	g.p("\t}")
	g.p("}")
}

func (g *generator) setters(ids naming.Record, fields []field) {
	g.p("")
	g.p("// %s has one setter per field of %s. Nested records return their", ids.Setters, article(ids.Type))
	g.p("// own setters, bound to the nested record's slot range.")
	g.p("type %s interface {", ids.Setters)
	for _, f := range fields {
		if f.nested != nil {
			g.p("\t%s() %s", f.Name, f.qual(f.nested.Setters))
		} else {
			g.p("\t%s() observe.FieldSetter[%s]", f.Name, f.Type)
		}
	}
	g.p("}")

	g.p("")
	g.p("type %s[E any] struct {", ids.Impl)
	g.p("\tslots observe.Slots[E]")
	g.p("\twrap  func(%s) E", ids.Event)
	g.p("}")

	g.p("")
	g.p("// %s binds %s setters to slots, which must hold exactly", ids.Bind, ids.Type)
	g.p("// %s slots. wrap lifts %s events into the slot event type.", ids.Size, ids.Type)
	g.p("func %s[E any](slots observe.Slots[E], wrap func(%s) E) %s {", ids.Bind, ids.Event, ids.Setters)
	g.p("\tobserve.CheckSpan(slots, %s, %q)", ids.Size, ids.Type)
	g.p("\treturn %s[E]{slots: slots, wrap: wrap}", ids.Impl)
	g.p("}")

	for _, f := range fields {
		g.p("")
		if f.nested != nil {
			g.p("func (s %s[E]) %s() %s {", ids.Impl, f.Name, f.qual(f.nested.Setters))
			g.p("\treturn %s[E](s.slots.Sub(%s, %s), func(ev %s) E {",
				f.qual(f.nested.Bind), f.slot, f.span, f.value)
			g.p("\t\treturn s.wrap(%s{Value: ev})", f.event)
			g.p("\t})")
		} else {
			g.p("func (s %s[E]) %s() observe.FieldSetter[%s] {", ids.Impl, f.Name, f.Type)
			g.p("\treturn observe.Leaf(s.slots, %s, func(v %s) E {", f.slot, f.Type)
			g.p("\t\treturn s.wrap(%s{Value: v})", f.event)
			g.p("\t})")
		}
		g.p("}")
	}
}

func (g *generator) observer(ids naming.Record) {
	g.p("")
	g.p("// %s keeps the newest pending change per slot of %s.", ids.Observer, article(ids.Type))
	g.p("type %s struct {", ids.Observer)
	g.p("\tslots [%s]observe.Slot[%s]", ids.Size, ids.Event)
	g.p("}")

	g.p("")
	g.p("// %s returns an observer with no pending events.", ids.NewObserver)
	g.p("func %s() *%s {", ids.NewObserver, ids.Observer)
	g.p("\treturn &%s{}", ids.Observer)
	g.p("}")

	g.p("")
	g.p("func (o *%s) view() observe.Slots[%s] {", ids.Observer, ids.Event)
	g.p("\treturn o.slots[:]")
	g.p("}")

	g.p("")
	g.p("// Setters returns setters that record into o.")
	g.p("func (o *%s) Setters() %s {", ids.Observer, ids.Setters)
	g.p("\treturn %s[%s](o.view(), observe.Identity[%s])", ids.Bind, ids.Event, ids.Event)
	g.p("}")

	g.p("")
	g.p("// Events yields the pending events in slot order.")
	g.p("func (o *%s) Events() iter.Seq[%s] {", ids.Observer, ids.Event)
	g.p("\treturn observe.Events(o.view())")
	g.p("}")

	g.p("")
	g.p("// Pending returns the number of pending events.")
	g.p("func (o *%s) Pending() int {", ids.Observer)
	g.p("\treturn observe.Pending(o.view())")
	g.p("}")

	g.p("")
	g.p("// ClearEvents discards every pending event.")
	g.p("func (o *%s) ClearEvents() {", ids.Observer)
	g.p("\tobserve.Clear(o.view())")
	g.p("}")
}

// article prefixes name with "a" or "an" for doc comments.
func article(name string) string {
	if name != "" && strings.ContainsRune("AEIOU", rune(name[0])) {
		return "an " + name
	}
	return "a " + name
}
