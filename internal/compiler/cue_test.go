package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSchemaBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		go_package: "records"
		go_imports: ["time"]

		record: Foo: {
			variance: 2
			fields: [
				{name: "field1", type: "uint16"},
				{name: "field2", type: "uint32"},
			]
		}

		record: Bar: {
			doc: "Bar embeds a Foo."
			fields: [
				{name: "field3", type: "uint64"},
				{name: "foo", record: "Foo"},
				{name: "updated_at", type: "time.Time", tag: "json:\"updated_at\""},
			]
		}
	`)
	require.NoError(t, v.Err())

	schema, err := CompileSchema(v)
	require.NoError(t, err)

	assert.Equal(t, "records", schema.Package)
	assert.Equal(t, []string{"time"}, schema.Imports)
	assert.True(t, schema.DeclareTypes)
	require.Len(t, schema.Records, 2)

	foo := schema.Record("Foo")
	require.NotNil(t, foo)
	require.NotNil(t, foo.Variance)
	assert.Equal(t, 2, *foo.Variance)
	assert.Equal(t, "Field1", foo.Fields[0].Name)
	assert.Equal(t, "uint16", foo.Fields[0].Type)

	bar := schema.Record("Bar")
	require.NotNil(t, bar)
	assert.Nil(t, bar.Variance)
	assert.Equal(t, "Bar embeds a Foo.", bar.Doc)
	require.Len(t, bar.Fields, 3)
	assert.False(t, bar.Fields[0].Participating())
	assert.True(t, bar.Fields[1].Participating())
	assert.Equal(t, "Foo", bar.Fields[1].Nested.Name)
	assert.Equal(t, "Foo", bar.Fields[1].Type)
	assert.Equal(t, "UpdatedAt", bar.Fields[2].Name)
	assert.Equal(t, `json:"updated_at"`, bar.Fields[2].Tag)
}

func TestCompileSchemaNoRecords(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`go_package: "empty"`)
	schema, err := CompileSchema(v)
	require.NoError(t, err)
	assert.Empty(t, schema.Records)
}

func TestCompileSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "missing package",
			src:     `record: Foo: {fields: []}`,
			wantErr: "go_package is required",
		},
		{
			name:    "missing fields",
			src:     `go_package: "p", record: Foo: {variance: 1}`,
			wantErr: "fields are required",
		},
		{
			name:    "missing field name",
			src:     `go_package: "p", record: Foo: {fields: [{type: "int"}]}`,
			wantErr: "field name is required",
		},
		{
			name:    "both type and record",
			src:     `go_package: "p", record: Foo: {fields: [{name: "a", type: "int", record: "Bar"}]}`,
			wantErr: "sets both type and record",
		},
		{
			name:    "neither type nor record",
			src:     `go_package: "p", record: Foo: {fields: [{name: "a"}]}`,
			wantErr: "needs a type or a record",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := cuecontext.New()
			v := ctx.CompileString(tt.src)
			require.NoError(t, v.Err())
			_, err := CompileSchema(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompileSchemaCUEError(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		go_package: "p"
		record: Foo: {variance: "two", fields: []}
	`)
	_, err := CompileSchema(v)
	require.Error(t, err)
}
