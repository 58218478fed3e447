package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldobs/internal/ir"
)

func TestScenariosGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "assertion errors: %v", result.Errors)

			require.NoError(t, AssertGolden(t, scenario.Name, result))
		})
	}
}

func TestRunParentChild(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/parent_child.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, []PendingEvent{
		{Slot: 0, Path: "Leaf", Value: ir.IRInt(7)},
		{Slot: 2, Path: "Child.Second", Value: ir.IRInt(9)},
	}, result.Events)
	assert.Equal(t, ir.IRObject{
		"Leaf":  ir.IRInt(7),
		"Child": ir.IRObject{"First": ir.IRInt(0), "Second": ir.IRInt(9)},
	}, result.Record)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, int64(2), result.Trace[1].Seq)
}

func TestRunDeterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/newest_wins.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := MarshalSnapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunReportsFailedAssertions(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: failing
description: "Every assertion is wrong"
schema:
  package: p
  records:
    - name: Point
      fields:
        - {name: X, type: int}
        - {name: Y, type: int}
record: Point
steps:
  - set: Y
    value: 2
assertions:
  - type: pending
    count: 2
  - type: events
    events:
      - {path: X, value: 2}
  - type: slot_set
    slots: [0]
  - type: final_record
    expect: {Y: 3}
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "Expected: 2 pending events")
	assert.Contains(t, result.Errors[1], "Assertion failed: events")
	assert.Contains(t, result.Errors[2], "slots [1]")
	assert.Contains(t, result.Errors[3], "Y:")
	assert.Contains(t, result.Errors[3], "[1] set Y (slot 1) = 2")
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{"bad path", "testdata/invalid/bad_path.yaml", "is a nested record, not a leaf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario, err := LoadScenario(tt.file)
			require.NoError(t, err)
			_, err = Run(scenario)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRunRejectsBadSchema(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "cycle",
			doc: `
name: cycle
description: "A record contains itself"
schema:
  package: p
  records:
    - name: Loop
      fields:
        - {name: Self, record: Loop}
record: Loop
assertions:
  - {type: pending, count: 0}
`,
			wantErr: "[E210]",
		},
		{
			name: "unknown record",
			doc: `
name: unknown
description: "The root record does not exist"
schema:
  package: p
  records:
    - name: A
      fields:
        - {name: X, type: int}
record: B
assertions:
  - {type: pending, count: 0}
`,
			wantErr: `unknown record "B"`,
		},
		{
			name: "float value",
			doc: `
name: float
description: "Floats have no IR form"
schema:
  package: p
  records:
    - name: A
      fields:
        - {name: X, type: int}
record: A
steps:
  - {set: X, value: 1.5}
assertions:
  - {type: pending, count: 1}
`,
			wantErr: "floats are not allowed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario, err := ParseScenario([]byte(tt.doc))
			require.NoError(t, err)
			_, err = Run(scenario)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
