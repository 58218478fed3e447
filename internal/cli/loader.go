package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/fieldobs/internal/compiler"
	"github.com/roach88/fieldobs/internal/ir"
)

// Schema sources.
const (
	SourceCUE  = "cue"
	SourceYAML = "yaml"
	SourceGo   = "go"
)

// DefaultOutput is the generated file name when --out is not given.
const DefaultOutput = "fields_gen.go"

// LoadRequest says where a schema comes from.
type LoadRequest struct {
	Path   string // file or directory
	Source string // "" detects the source from Path
	Output string // generated file; ignored while loading Go sources
}

// LoadResult contains a loaded schema and the inputs it was read from.
type LoadResult struct {
	Schema *ir.Schema
	Source string
	Files  []string // input files, for watching and diagnostics
	Dir    string   // directory of the inputs
}

// LoadError represents an error that occurred during schema loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSchema loads the schema named by req.
func LoadSchema(req LoadRequest) (*LoadResult, error) {
	info, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema path not found: %s", req.Path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema path: %v", err)}
	}

	source := req.Source
	if source == "" {
		if source, err = detectSource(req.Path, info); err != nil {
			return nil, err
		}
	}

	switch source {
	case SourceCUE:
		if info.IsDir() {
			return loadCUEDir(req.Path)
		}
		return loadFile(req.Path, SourceCUE)
	case SourceYAML:
		if info.IsDir() {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("yaml source must be a file: %s", req.Path)}
		}
		return loadFile(req.Path, SourceYAML)
	case SourceGo:
		if !info.IsDir() {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("go source must be a package directory: %s", req.Path)}
		}
		return loadGoDir(req.Path, filepath.Base(req.Output))
	default:
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("unknown source %q", source)}
	}
}

// detectSource picks a source from a file extension, or from the files a
// directory holds: CUE files win over Go files.
func detectSource(path string, info os.FileInfo) (string, error) {
	if !info.IsDir() {
		switch filepath.Ext(path) {
		case ".cue":
			return SourceCUE, nil
		case ".yaml", ".yml":
			return SourceYAML, nil
		}
		return "", &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("cannot detect schema source of %s, use --source", path)}
	}
	cueFiles, err := filesWithExt(path, ".cue")
	if err != nil {
		return "", &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) > 0 {
		return SourceCUE, nil
	}
	goFiles, err := filesWithExt(path, ".go")
	if err != nil {
		return "", &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(goFiles) > 0 {
		return SourceGo, nil
	}
	return "", &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or Go files found in %s", path)}
}

func loadFile(path, source string) (*LoadResult, error) {
	schema, err := compiler.LoadFile(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return &LoadResult{Schema: schema, Source: source, Files: []string{path}, Dir: filepath.Dir(path)}, nil
}

// loadCUEDir unifies every CUE file of the package in dir.
func loadCUEDir(dir string) (*LoadResult, error) {
	cueFiles, err := filesWithExt(dir, ".cue")
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files (a directory schema needs a package clause; pass a single file otherwise): %v", inst.Err)}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	schema, err := compiler.CompileSchema(value)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return &LoadResult{Schema: schema, Source: SourceCUE, Files: cueFiles, Dir: dir}, nil
}

func loadGoDir(dir, output string) (*LoadResult, error) {
	if output == "" || output == "." || output == "-" {
		output = DefaultOutput
	}
	schema, err := compiler.LoadGoPackage(compiler.GoLoadOptions{Dir: dir, IgnoreFile: output})
	if err != nil {
		return nil, convertCompileError(err)
	}
	goFiles, err := filesWithExt(dir, ".go")
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	files := goFiles[:0]
	for _, f := range goFiles {
		if isGoInput(filepath.Base(f), output) {
			files = append(files, f)
		}
	}
	return &LoadResult{Schema: schema, Source: SourceGo, Files: files, Dir: dir}, nil
}

// isGoInput reports whether a file of a Go package can change its schema.
func isGoInput(name, output string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") && name != output
}

// filesWithExt lists the files directly in dir with extension ext.
func filesWithExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		if compileErr.Pos.IsValid() {
			return &LoadError{Code: ErrCodeCompile, Message: compileErr.Message, Pos: compileErr.Pos}
		}
		return &LoadError{Code: ErrCodeCompile, Message: compileErr.Error()}
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error code constants - unified across all CLI commands. Schema validation
// reports the compiler's E2xx codes unchanged.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No schema files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeCompile     = "E008" // Schema source could not be compiled
	ErrCodeGenerate    = "E009" // Code generation failed
	ErrCodeStale       = "E010" // Generated file out of date
)

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
