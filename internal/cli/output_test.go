package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := WrapExitError(ExitFailure, "stale", errors.New("shape differs"))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "stale: shape differs", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "shape differs")
}

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"records": 2}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"records": float64(2)}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error("E005", "schema not found", map[string]string{"path": "x.cue"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E005", resp.Error.Code)
	assert.Equal(t, "schema not found", resp.Error.Message)
	assert.Equal(t, map[string]any{"path": "x.cue"}, resp.Error.Details)
}

func TestOutputFormatter_Failure(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Failure("E010", "stale", CheckResult{Output: "fields_gen.go", Expected: "ab"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E010", resp.Error.Code)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "fields_gen.go", data["output"])
	assert.Equal(t, false, data["up_to_date"])
}

func TestOutputFormatter_TextError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Error("E001", "load failed", "hidden details"))
	assert.Equal(t, "Error [E001]: load failed\n", buf.String())

	buf.Reset()
	f.Verbose = true
	require.NoError(t, f.Error("E001", "load failed", "shown details"))
	assert.Contains(t, buf.String(), "Details: shown details")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{"quiet", false, ""},
		{"verbose", true, "loaded 3 record(s)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			f := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut, Verbose: tt.verbose}
			f.VerboseLog("loaded %d record(s)", 3)
			assert.Empty(t, out.String())
			assert.Equal(t, tt.want, errOut.String())
		})
	}
}

func TestOutputFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	f.Table([]string{"Slot", "Path"}, [][]string{{"0", "Field3"}, {"1", "Foo.Field1"}})

	out := buf.String()
	assert.Contains(t, out, "Slot")
	assert.Contains(t, out, "Path")
	assert.Contains(t, out, "Foo.Field1")
}

func TestCommandError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := commandError(f, ErrCodeNotFound, "no such schema")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "Error [E005]: no such schema\n", buf.String())
}
