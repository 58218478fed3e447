package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/fieldobs/internal/compiler"
	"github.com/roach88/fieldobs/internal/dynamic"
	"github.com/roach88/fieldobs/internal/ir"
)

// Harness is the test execution engine.
type Harness struct {
	logger *slog.Logger
}

// New returns a harness that logs step execution to logger. A nil logger
// discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a test scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Each scenario gets a fresh model and observer. Execution flow:
//  1. Compile and validate the schema
//  2. Bind an observer to the root record
//  3. Execute steps through the setter chain
//  4. Replay the pending events onto a zero record
//  5. Evaluate assertions
//
// An error means the scenario could not run at all: a bad schema, an
// unknown record, a path the chain rejects, or a value the model cannot
// hold. Assertion failures are reported in the Result instead.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	schema, err := scenario.LoadSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	if errs := compiler.Validate(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid schema: %w", errs[0])
	}
	model, err := dynamic.Compile(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile model: %w", err)
	}
	typ, err := model.Type(scenario.Record)
	if err != nil {
		return nil, err
	}
	obs, err := dynamic.NewObserver(typ)
	if err != nil {
		return nil, fmt.Errorf("failed to bind observer: %w", err)
	}

	result := NewResult()
	if err := h.executeSteps(typ, obs, scenario.Steps, result); err != nil {
		return nil, err
	}

	for slot, ev := range obs.Indexed() {
		path, value, ok := dynamic.Unwrap(ev)
		if !ok {
			return nil, fmt.Errorf("slot %d holds an event without a value", slot)
		}
		result.Events = append(result.Events, PendingEvent{
			Slot:  slot,
			Path:  strings.Join(path, "."),
			Value: value,
		})
	}

	rec := typ.New()
	for ev := range obs.Events() {
		if err := rec.Apply(ev); err != nil {
			return nil, fmt.Errorf("failed to replay %s: %w", dynamic.String(ev), err)
		}
	}
	result.Record = rec.Value()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"steps", len(scenario.Steps),
		"pending", len(result.Events),
		"pass", result.Pass,
	)
	return result, nil
}

// executeSteps applies every step to obs in order.
func (h *Harness) executeSteps(typ *dynamic.Type, obs *dynamic.Observer, steps []Step, result *Result) error {
	chain := obs.Setters()
	for i, step := range steps {
		if step.Clear {
			obs.ClearEvents()
			result.AddClearTrace()
			h.logger.Debug("step cleared events", "step", i)
			continue
		}

		setter, err := chain.Path(step.Set)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		slot, err := typ.Layout().Slot(strings.Split(step.Set, ".")...)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		value, err := ir.FromAny(step.Value)
		if err != nil {
			return fmt.Errorf("step %d: failed to convert value: %w", i, err)
		}

		setter.Set(value)
		result.AddSetTrace(step.Set, slot, value)
		h.logger.Debug("step set field",
			"step", i,
			"path", step.Set,
			"slot", slot,
			"value", ir.Format(value),
		)
	}
	return nil
}
