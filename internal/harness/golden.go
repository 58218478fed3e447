package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fieldobs/internal/ir"
)

// Snapshot captures everything a scenario run observed.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string         `json:"scenario_name"`
	Trace        []TraceEvent   `json:"trace"`
	Events       []PendingEvent `json:"events"`
	Record       ir.IRObject    `json:"record"`
}

// toCanonicalMap converts a Snapshot to a map[string]any, the form
// ir.MarshalCanonical accepts.
func (s *Snapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		m := map[string]any{
			"seq": event.Seq,
			"op":  event.Op,
		}
		if event.Op == OpSet {
			m["path"] = event.Path
			m["slot"] = event.Slot
			m["value"] = event.Value
		}
		trace[i] = m
	}

	events := make([]any, len(s.Events))
	for i, ev := range s.Events {
		events[i] = map[string]any{
			"slot":  ev.Slot,
			"path":  ev.Path,
			"value": ev.Value,
		}
	}

	record := s.Record
	if record == nil {
		record = ir.IRObject{}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
		"events":        events,
		"record":        record,
	}
}

// MarshalSnapshot serializes the observable outcome of result.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Events:       result.Events,
		Record:       result.Record,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the snapshot of an existing result against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
