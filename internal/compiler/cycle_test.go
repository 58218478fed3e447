package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldobs/internal/ir"
)

// nest builds a record whose fields all expand the named records.
func nest(name string, targets ...string) ir.RecordShape {
	rec := ir.RecordShape{Name: name, Fields: []ir.FieldShape{{Name: "Leaf", Type: "int"}}}
	for _, target := range targets {
		rec.Fields = append(rec.Fields, ir.FieldShape{
			Name: "Inner" + target, Type: target, Nested: &ir.RecordRef{Name: target},
		})
	}
	return rec
}

func TestAnalyzeCycles_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(&ir.Schema{Package: "p"}))
}

func TestAnalyzeCycles_DAG(t *testing.T) {
	s := &ir.Schema{Package: "p", Records: []ir.RecordShape{
		nest("A", "B", "C"),
		nest("B", "C"),
		nest("C"),
	}}
	assert.Empty(t, AnalyzeCycles(s))
}

func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	s := &ir.Schema{Package: "p", Records: []ir.RecordShape{nest("A", "A")}}
	cycles := AnalyzeCycles(s)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A", "A"}, cycles[0].Path)
	assert.Equal(t, "records contain themselves: A -> A", cycles[0].Message)
}

func TestAnalyzeCycles_ThreeNodeCycle(t *testing.T) {
	s := &ir.Schema{Package: "p", Records: []ir.RecordShape{
		nest("A", "B"),
		nest("B", "C"),
		nest("C", "A"),
	}}
	cycles := AnalyzeCycles(s)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cycles[0].Path)
}

func TestAnalyzeCycles_ShortestPath(t *testing.T) {
	// A -> B -> C -> A and A -> C: the shortest cycle through A is A -> C -> A.
	s := &ir.Schema{Package: "p", Records: []ir.RecordShape{
		nest("A", "B", "C"),
		nest("B", "C"),
		nest("C", "A"),
	}}
	cycles := AnalyzeCycles(s)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A", "C", "A"}, cycles[0].Path)
}

func TestAnalyzeCycles_MultipleIndependentCycles(t *testing.T) {
	s := &ir.Schema{Package: "p", Records: []ir.RecordShape{
		nest("A", "B"),
		nest("B", "A"),
		nest("C"),
		nest("D", "E"),
		nest("E", "D"),
	}}
	cycles := AnalyzeCycles(s)
	require.Len(t, cycles, 2)

	var starts []string
	for _, c := range cycles {
		starts = append(starts, c.Path[0])
	}
	assert.ElementsMatch(t, []string{"A", "D"}, starts)
}

func TestAnalyzeCycles_IgnoresExternalAndUnknown(t *testing.T) {
	s := &ir.Schema{Package: "p", Records: []ir.RecordShape{{
		Name: "A",
		Fields: []ir.FieldShape{
			{Name: "Ext", Type: "geo.A", Nested: &ir.RecordRef{Name: "A", Package: "example.com/geo", Alias: "geo", Size: 2}},
			{Name: "Missing", Type: "Missing", Nested: &ir.RecordRef{Name: "Missing"}},
		},
	}}}
	assert.Empty(t, AnalyzeCycles(s))
}
