package dynamic

import (
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldobs/internal/compiler"
	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/observe"
)

const schemaYAML = `
package: records
records:
  - name: Foo
    variance: 2
    fields:
      - {name: Field1, type: uint16}
      - {name: Field2, type: string}
  - name: Bar
    variance: 4
    fields:
      - {name: Field3, type: uint64}
      - {name: Foo, record: Foo}
      - {name: Field4, type: bool}
  - name: Child
    fields:
      - {name: First, type: int}
      - {name: Second, type: int}
  - name: Parent
    variance: 3
    fields:
      - {name: Leaf, type: int}
      - {name: Child, record: Child}
`

func testModel(t *testing.T) *Model {
	t.Helper()
	s, err := compiler.ParseYAMLSchema([]byte(schemaYAML))
	require.NoError(t, err)
	m, err := Compile(s)
	require.NoError(t, err)
	return m
}

func observer(t *testing.T, m *Model, name string) *Observer {
	t.Helper()
	typ, err := m.Type(name)
	require.NoError(t, err)
	o, err := NewObserver(typ)
	require.NoError(t, err)
	return o
}

func set(t *testing.T, c *Chain, path string, v ir.IRValue) {
	t.Helper()
	s, err := c.Path(path)
	require.NoError(t, err)
	s.Set(v)
}

func TestParentChildScenario(t *testing.T) {
	o := observer(t, testModel(t), "Parent")
	set(t, o.Setters(), "Leaf", ir.IRInt(7))
	set(t, o.Setters(), "Child.Second", ir.IRInt(9))

	type indexed struct {
		slot int
		ev   Event
	}
	var got []indexed
	for slot, ev := range o.Indexed() {
		got = append(got, indexed{slot, ev})
	}
	assert.Equal(t, []indexed{
		{0, Set{Field: "Leaf", Value: ir.IRInt(7)}},
		{2, Nested{Field: "Child", Inner: Set{Field: "Second", Value: ir.IRInt(9)}}},
	}, got)
}

func TestNewestWinsAndOrder(t *testing.T) {
	o := observer(t, testModel(t), "Bar")
	c := o.Setters()
	set(t, c, "Field4", ir.IRBool(true))
	set(t, c, "Foo.Field2", ir.IRString("a"))
	set(t, c, "Foo.Field2", ir.IRString("b"))
	set(t, c, "Field3", ir.IRInt(3))

	var got []string
	for ev := range o.Events() {
		got = append(got, String(ev))
	}
	assert.Equal(t, []string{"Field3=3", `Foo.Field2="b"`, "Field4=true"}, got)
	assert.Equal(t, 3, o.Pending())
}

func TestClearEvents(t *testing.T) {
	o := observer(t, testModel(t), "Bar")
	set(t, o.Setters(), "Foo.Field1", ir.IRInt(1))
	o.ClearEvents()
	assert.Zero(t, o.Pending())
	assert.Empty(t, slices.Collect(o.Events()))
	assert.Equal(t, 4, o.Slots().Len())
}

func TestApplyRoundTrip(t *testing.T) {
	m := testModel(t)
	o := observer(t, m, "Bar")
	c := o.Setters()
	set(t, c, "Field3", ir.IRInt(3))
	set(t, c, "Foo.Field1", ir.IRInt(1))
	set(t, c, "Foo.Field2", ir.IRString("two"))
	set(t, c, "Field4", ir.IRBool(true))

	typ, err := m.Type("Bar")
	require.NoError(t, err)
	r := typ.New()
	for ev := range o.Events() {
		require.NoError(t, r.Apply(ev))
	}
	assert.Equal(t, ir.IRObject{
		"Field3": ir.IRInt(3),
		"Foo":    ir.IRObject{"Field1": ir.IRInt(1), "Field2": ir.IRString("two")},
		"Field4": ir.IRBool(true),
	}, r.Value())

	v, err := r.Get("Foo", "Field2")
	require.NoError(t, err)
	assert.Equal(t, ir.IRString("two"), v)
}

func TestNewZeroValues(t *testing.T) {
	typ, err := testModel(t).Type("Bar")
	require.NoError(t, err)
	assert.Equal(t, ir.IRObject{
		"Field3": ir.IRInt(0),
		"Foo":    ir.IRObject{"Field1": ir.IRInt(0), "Field2": ir.IRString("")},
		"Field4": ir.IRBool(false),
	}, typ.New().Value())
}

func TestApplyNilAndErrors(t *testing.T) {
	typ, err := testModel(t).Type("Bar")
	require.NoError(t, err)
	r := typ.New()
	before := r.Value()

	require.NoError(t, r.Apply(nil))
	require.NoError(t, r.Apply(Nested{Field: "Foo"}))

	var fe *FieldError
	require.ErrorAs(t, r.Apply(Set{Field: "Nope", Value: ir.IRInt(1)}), &fe)
	assert.Equal(t, "Nope", fe.Field)
	require.ErrorAs(t, r.Apply(Set{Field: "Foo", Value: ir.IRInt(1)}), &fe)
	require.ErrorAs(t, r.Apply(Nested{Field: "Field3", Inner: Set{Field: "X"}}), &fe)
	require.ErrorAs(t, r.Apply(Nested{Field: "Foo", Inner: Set{Field: "X"}}), &fe)
	assert.Equal(t, "Foo", fe.Record)

	assert.Equal(t, before, r.Value())
}

func TestChainErrors(t *testing.T) {
	c := observer(t, testModel(t), "Bar").Setters()
	tests := []struct {
		path   string
		reason string
	}{
		{"Missing", "no such field"},
		{"Foo", "is a nested record, not a leaf"},
		{"Field3.X", "is a leaf, not a nested record"},
		{"Foo.Missing", "no such field"},
		{"", "no such field"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := c.Path(tt.path)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.reason, fe.Reason)
		})
	}
}

func TestChainSlotsMatchLayout(t *testing.T) {
	o := observer(t, testModel(t), "Bar")
	for _, leaf := range o.Leaves() {
		set(t, o.Setters(), leaf.String(), ir.IRString(leaf.String()))
		ev, ok := o.Slots()[leaf.Slot].Get()
		require.True(t, ok, leaf.String())
		path, value, ok := Unwrap(ev)
		require.True(t, ok)
		assert.Equal(t, leaf.Path, path)
		assert.Equal(t, ir.IRString(leaf.String()), value)
	}
	assert.Equal(t, 4, o.Pending())
}

func TestBindWrongSpan(t *testing.T) {
	typ, err := testModel(t).Type("Bar")
	require.NoError(t, err)
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "want an error panic, got %v", r)
		assert.True(t, errors.HasAssertionFailure(err))
	}()
	Bind(typ, make(observe.Slots[Event], 2), observe.Identity[Event])
}

func TestCompileRejectsMismatch(t *testing.T) {
	s, err := compiler.ParseYAMLSchema([]byte(`
package: p
records:
  - name: A
    variance: 1
    fields:
      - {name: X, type: int}
      - {name: Y, type: int}
`))
	require.NoError(t, err)
	_, err = Compile(s)
	assert.ErrorContains(t, err, "declares variance 1 but its fields flatten to 2 slots")
}

func TestUnknownType(t *testing.T) {
	_, err := testModel(t).Type("Nope")
	assert.ErrorContains(t, err, `unknown record "Nope"`)
}
