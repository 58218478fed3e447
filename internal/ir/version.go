package ir

// Version constants for the IR and generator.
const (
	// IRVersion is the schema IR version.
	IRVersion = "1"

	// GeneratorVersion is the fieldgen version. It is part of every schema
	// hash, so upgrading the generator marks previously generated files stale.
	GeneratorVersion = "0.1.0"
)
