package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/fieldobs/internal/ir"
)

// LoadFile reads a single schema file. The extension selects the format:
// .cue is compiled with the CUE SDK, .yaml and .yml go through
// ParseYAMLSchema.
func LoadFile(path string) (*ir.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	switch filepath.Ext(path) {
	case ".cue":
		v := cuecontext.New().CompileBytes(data, cue.Filename(path))
		return CompileSchema(v)
	case ".yaml", ".yml":
		return ParseYAMLSchema(data)
	default:
		return nil, &CompileError{Field: path, Message: "unknown schema format, want .cue, .yaml or .yml"}
	}
}
