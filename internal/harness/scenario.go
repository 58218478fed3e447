package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fieldobs/internal/compiler"
	"github.com/roach88/fieldobs/internal/ir"
)

// Scenario drives one root observer through a list of steps.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is an inline schema. Exactly one of Schema and SchemaFile is set.
	Schema *compiler.YAMLSchema `yaml:"schema,omitempty"`

	// SchemaFile is a .cue or .yaml schema, relative to the scenario file.
	SchemaFile string `yaml:"schema_file,omitempty"`

	// Record names the root record the observer tracks.
	Record string `yaml:"record"`

	// Steps are applied to the observer in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the pending events and the replayed record.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is either a set through the setter chain or a clear of the buffer.
type Step struct {
	// Set is a dotted field path, such as "Child.Second".
	Set string `yaml:"set,omitempty"`

	// Value is the value to record. Decoded YAML is converted with ir.FromAny.
	Value any `yaml:"value,omitempty"`

	// Clear discards every pending event.
	Clear bool `yaml:"clear,omitempty"`
}

// ExpectedEvent is one entry of an events assertion.
type ExpectedEvent struct {
	Path  string `yaml:"path"`
	Slot  *int   `yaml:"slot,omitempty"`
	Value any    `yaml:"value"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type is one of events, pending, slot_set, final_record.
	Type string `yaml:"type"`

	// Events is the exact pending event list (events).
	Events []ExpectedEvent `yaml:"events,omitempty"`

	// Count is the expected number of pending events (pending).
	Count *int `yaml:"count,omitempty"`

	// Slots are the slots expected to hold an event (slot_set).
	Slots []int `yaml:"slots,omitempty"`

	// Expect is a subset of the replayed record (final_record).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertEvents      = "events"
	AssertPending     = "pending"
	AssertSlotSet     = "slot_set"
	AssertFinalRecord = "final_record"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if s.SchemaFile != "" && !filepath.IsAbs(s.SchemaFile) {
		s.SchemaFile = filepath.Join(filepath.Dir(path), s.SchemaFile)
	}
	return s, nil
}

// ParseScenario decodes a scenario document. SchemaFile, if set, is left
// as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadSchema compiles the scenario's schema, inline or from SchemaFile.
func (s *Scenario) LoadSchema() (*ir.Schema, error) {
	if s.Schema != nil {
		return s.Schema.Compile()
	}
	return compiler.LoadFile(s.SchemaFile)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	switch {
	case s.Schema == nil && s.SchemaFile == "":
		return fmt.Errorf("one of schema or schema_file is required")
	case s.Schema != nil && s.SchemaFile != "":
		return fmt.Errorf("schema and schema_file are mutually exclusive")
	}
	if s.Record == "" {
		return fmt.Errorf("record is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch {
		case step.Clear && step.Set != "":
			return fmt.Errorf("steps[%d]: set and clear are mutually exclusive", i)
		case step.Clear:
			if step.Value != nil {
				return fmt.Errorf("steps[%d]: clear takes no value", i)
			}
		case step.Set == "":
			return fmt.Errorf("steps[%d]: set or clear is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEvents:
		for j, ev := range a.Events {
			if ev.Path == "" {
				return fmt.Errorf("assertions[%d].events[%d]: path is required", index, j)
			}
		}
	case AssertPending:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for pending", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for pending", index)
		}
	case AssertSlotSet:
		for j, slot := range a.Slots {
			if slot < 0 {
				return fmt.Errorf("assertions[%d].slots[%d]: slot must be non-negative", index, j)
			}
		}
	case AssertFinalRecord:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_record", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
