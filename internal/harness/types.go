package harness

import "github.com/roach88/fieldobs/internal/ir"

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq   int64      `json:"seq"`
	Op    string     `json:"op"` // "set" or "clear"
	Path  string     `json:"path,omitempty"`
	Slot  int        `json:"slot"`
	Value ir.IRValue `json:"value,omitempty"`
}

// PendingEvent is one event left in the observer after the last step.
type PendingEvent struct {
	Slot  int        `json:"slot"`
	Path  string     `json:"path"`
	Value ir.IRValue `json:"value"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Trace holds the executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Events holds the pending events in slot order.
	Events []PendingEvent `json:"events"`

	// Record is the root record after replaying Events onto a zero value.
	Record ir.IRObject `json:"record"`

	// Errors holds assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Events: []PendingEvent{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddSetTrace records a set step.
func (r *Result) AddSetTrace(path string, slot int, value ir.IRValue) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:   int64(len(r.Trace) + 1),
		Op:    OpSet,
		Path:  path,
		Slot:  slot,
		Value: value,
	})
}

// AddClearTrace records a clear step.
func (r *Result) AddClearTrace() {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:  int64(len(r.Trace) + 1),
		Op:   OpClear,
		Slot: -1,
	})
}

// Step operations recorded in the trace.
const (
	OpSet   = "set"
	OpClear = "clear"
)
