package layout

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldobs/internal/ir"
)

// parseSchema reads the compact record notation used by testdata files:
//
//	record Name [variance=N]
//	  Field Type [expand | external=importpath:size]
func parseSchema(t *testing.T, input string) *ir.Schema {
	s := &ir.Schema{Package: "test"}
	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if !strings.HasPrefix(line, " ") {
			require.Equal(t, "record", fields[0], "line %q", line)
			rec := ir.RecordShape{Name: fields[1]}
			for _, arg := range fields[2:] {
				v, ok := strings.CutPrefix(arg, "variance=")
				require.True(t, ok, "unknown record arg %q", arg)
				n, err := strconv.Atoi(v)
				require.NoError(t, err)
				rec.Variance = ir.IntPtr(n)
			}
			s.Records = append(s.Records, rec)
			continue
		}
		require.NotEmpty(t, s.Records, "field before record: %q", line)
		rec := &s.Records[len(s.Records)-1]
		f := ir.FieldShape{Name: fields[0], Type: fields[1]}
		for _, arg := range fields[2:] {
			switch {
			case arg == "expand":
				f.Nested = &ir.RecordRef{Name: f.Type}
			case strings.HasPrefix(arg, "external="):
				pkg, size, ok := strings.Cut(strings.TrimPrefix(arg, "external="), ":")
				require.True(t, ok, "external needs importpath:size")
				n, err := strconv.Atoi(size)
				require.NoError(t, err)
				alias, name, _ := strings.Cut(f.Type, ".")
				f.Nested = &ir.RecordRef{Name: name, Package: pkg, Alias: alias, Size: n}
			default:
				t.Fatalf("unknown field arg %q", arg)
			}
		}
		rec.Fields = append(rec.Fields, f)
	}
	return s
}

func TestLayoutDataDriven(t *testing.T) {
	var schema *ir.Schema

	lookup := func(t *testing.T, td *datadriven.TestData) (*Layout, error) {
		var name string
		td.ScanArgs(t, "record", &name)
		layouts, err := Compute(schema)
		if err != nil {
			return nil, err
		}
		l, ok := layouts[name]
		if !ok {
			return nil, fmt.Errorf("no record %q", name)
		}
		return l, nil
	}

	datadriven.RunTest(t, "testdata/layout", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "define":
			schema = parseSchema(t, td.Input)
			return ""

		case "layout":
			l, err := lookup(t, td)
			if err != nil {
				return err.Error()
			}
			return l.String()

		case "leaves":
			l, err := lookup(t, td)
			if err != nil {
				return err.Error()
			}
			var b strings.Builder
			for _, leaf := range l.Leaves() {
				fmt.Fprintf(&b, "%d %s\n", leaf.Slot, leaf)
			}
			return b.String()

		case "check":
			l, err := lookup(t, td)
			if err != nil {
				return err.Error()
			}
			if err := l.Check(); err != nil {
				return err.Error()
			}
			return "ok"

		case "slot":
			l, err := lookup(t, td)
			if err != nil {
				return err.Error()
			}
			var path string
			td.ScanArgs(t, "path", &path)
			slot, err := l.Slot(strings.Split(path, ".")...)
			if err != nil {
				return err.Error()
			}
			return strconv.Itoa(slot)

		case "verify":
			layouts, err := Compute(schema)
			if err != nil {
				return err.Error()
			}
			var b strings.Builder
			for _, rec := range schema.Records {
				if rec.Variance == nil {
					continue
				}
				if err := Verify(layouts[rec.Name], *rec.Variance); err != nil {
					fmt.Fprintf(&b, "%s: %v\n", rec.Name, err)
					continue
				}
				fmt.Fprintf(&b, "%s: ok\n", rec.Name)
			}
			return b.String()

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}

// randomSchema builds n records where record i may nest any record j < i,
// so the schema is acyclic by construction.
func randomSchema(rng *rand.Rand, n int) *ir.Schema {
	s := &ir.Schema{Package: "rnd"}
	for i := range n {
		rec := ir.RecordShape{Name: fmt.Sprintf("R%d", i)}
		for j := range rng.IntN(5) {
			f := ir.FieldShape{Name: fmt.Sprintf("F%d", j), Type: "int"}
			if i > 0 && rng.IntN(3) == 0 {
				target := fmt.Sprintf("R%d", rng.IntN(i))
				f.Type = target
				f.Nested = &ir.RecordRef{Name: target}
			}
			rec.Fields = append(rec.Fields, f)
		}
		s.Records = append(s.Records, rec)
	}
	return s
}

// leafCount is the definition of variant size written independently of
// Compute.
func leafCount(s *ir.Schema, name string) int {
	n := 0
	for _, f := range s.Record(name).Fields {
		if f.Nested == nil {
			n++
			continue
		}
		n += leafCount(s, f.Nested.Name)
	}
	return n
}

func TestPartitionCompleteness(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for iter := range 200 {
		s := randomSchema(rng, 1+rng.IntN(6))
		layouts, err := Compute(s)
		require.NoError(t, err)

		for _, rec := range s.Records {
			l := layouts[rec.Name]
			require.NoError(t, l.Check(), "iteration %d record %s", iter, rec.Name)
			require.Equal(t, leafCount(s, rec.Name), l.Size)

			// Leaves cover [0, size) exactly once, in order.
			leaves := l.Leaves()
			require.Len(t, leaves, l.Size)
			for i, leaf := range leaves {
				require.Equal(t, i, leaf.Slot, "iteration %d record %s leaf %s", iter, rec.Name, leaf)
				slot, err := l.Slot(leaf.Path...)
				require.NoError(t, err)
				require.Equal(t, i, slot)
			}
		}
	}
}

func TestComputeSharesNestedLayouts(t *testing.T) {
	s := randomSchema(rand.New(rand.NewPCG(3, 4)), 1)
	s.Records = append(s.Records, ir.RecordShape{Name: "Outer", Fields: []ir.FieldShape{
		{Name: "A", Type: "R0", Nested: &ir.RecordRef{Name: "R0"}},
		{Name: "B", Type: "R0", Nested: &ir.RecordRef{Name: "R0"}},
	}})
	layouts, err := Compute(s)
	require.NoError(t, err)

	outer := layouts["Outer"]
	assert.Same(t, layouts["R0"], outer.Fields[0].Nested)
	assert.Same(t, outer.Fields[0].Nested, outer.Fields[1].Nested)
	assert.Equal(t, outer.Fields[0].End(), outer.Fields[1].Offset)
}

func TestOf(t *testing.T) {
	s := &ir.Schema{Records: []ir.RecordShape{
		{Name: "A", Fields: []ir.FieldShape{{Name: "X", Type: "int"}}},
	}}
	l, err := Of(s, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, l.Size)

	_, err = Of(s, "B")
	assert.Error(t, err)
}

func TestVerifySchema(t *testing.T) {
	s := &ir.Schema{Records: []ir.RecordShape{
		{Name: "A", Variance: ir.IntPtr(2), Fields: []ir.FieldShape{{Name: "X", Type: "int"}}},
		{Name: "B", Fields: []ir.FieldShape{{Name: "Y", Type: "int"}}},
	}}
	layouts, err := Compute(s)
	require.NoError(t, err)

	errs := VerifySchema(s, layouts)
	require.Len(t, errs, 1)
	var mismatch *MismatchError
	require.ErrorAs(t, errs[0], &mismatch)
	assert.Equal(t, MismatchError{Record: "A", Declared: 2, Actual: 1}, *mismatch)
}

func TestCheckDetectsCorruption(t *testing.T) {
	l := &Layout{Record: "R", Size: 2, Fields: []Range{
		{Field: "A", Offset: 0, Span: 1},
		{Field: "B", Offset: 2, Span: 1},
	}}
	assert.ErrorContains(t, l.Check(), "offset 2, expected 1")

	l.Fields[1].Offset = 1
	l.Size = 3
	assert.ErrorContains(t, l.Check(), "cover 2 slots, size is 3")
}
