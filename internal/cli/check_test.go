package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldobs/internal/gen"
)

func TestCheck(t *testing.T) {
	schema := copyFixture(t, "yaml/point.yaml")
	out := filepath.Join(filepath.Dir(schema), DefaultOutput)

	stdout, err := executeCommand(t, "check", schema)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, out+" does not exist")

	require.NoError(t, os.WriteFile(out, []byte("package geo\n"), 0o644))
	stdout, err = executeCommand(t, "check", schema)
	require.Error(t, err)
	assert.Contains(t, stdout, "is not a generated file")

	stale := gen.Header + "\n" + gen.ShapePrefix + "0000\n\npackage geo\n"
	require.NoError(t, os.WriteFile(out, []byte(stale), 0o644))
	stdout, err = executeCommand(t, "check", schema)
	require.Error(t, err)
	assert.Contains(t, stdout, "is stale, run fieldgen generate")

	_, err = executeCommand(t, "generate", schema)
	require.NoError(t, err)
	stdout, err = executeCommand(t, "check", schema)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ "+out+" is up to date")
}

func TestCheckPackageOverride(t *testing.T) {
	schema := copyFixture(t, "yaml/point.yaml")

	_, err := executeCommand(t, "generate", schema, "--pkg", "shapes")
	require.NoError(t, err)

	_, err = executeCommand(t, "check", schema, "--pkg", "shapes")
	require.NoError(t, err)

	stdout, err := executeCommand(t, "check", schema, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, stdout, `"code": "E010"`)
	assert.Contains(t, stdout, `"up_to_date": false`)
}
