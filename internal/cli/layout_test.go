package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutFields(t *testing.T) {
	stdout, err := executeCommand(t, "layout", "testdata/cue/records.cue", "--record", "Bar")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Bar (BarVariantSize = 4)")
	assert.Contains(t, stdout, "[1,3)")
	assert.Contains(t, stdout, "barFooSlot")
	assert.NotContains(t, stdout, "FooVariantSize")
}

func TestLayoutLeaves(t *testing.T) {
	stdout, err := executeCommand(t, "layout", "testdata/cue/records.cue", "-r", "Bar", "--leaves")
	require.NoError(t, err)

	for _, path := range []string{"Field3", "Foo.Field1", "Foo.Field2", "Field4"} {
		assert.Contains(t, stdout, path)
	}
}

func TestLayoutJSON(t *testing.T) {
	stdout, err := executeCommand(t, "layout", "testdata/cue/records.cue", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []RecordLayout `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)

	byName := make(map[string]RecordLayout)
	for _, r := range resp.Data {
		byName[r.Record] = r
	}
	bar := byName["Bar"]
	assert.Equal(t, 4, bar.Size)
	assert.Equal(t, []LeafLayout{
		{Path: "Field3", Slot: 0},
		{Path: "Foo.Field1", Slot: 1},
		{Path: "Foo.Field2", Slot: 2},
		{Path: "Field4", Slot: 3},
	}, bar.Leaves)
	require.Len(t, bar.Fields, 3)
	assert.Equal(t, FieldLayout{Field: "Foo", Offset: 1, Span: 2, Nested: "Foo", Constant: "barFooSlot"}, bar.Fields[1])
	assert.Equal(t, 2, byName["Foo"].Size)
}

func TestLayoutUnknownRecord(t *testing.T) {
	stdout, err := executeCommand(t, "layout", "testdata/cue/records.cue", "--record", "Baz")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, `unknown record "Baz"`)
}
