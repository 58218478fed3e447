package harness

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/kr/pretty"

	"github.com/roach88/fieldobs/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Diff     []string     // Field-level differences, when both sides are structured
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Diff) > 0 {
		fmt.Fprintf(&buf, "\nDiff:\n")
		for _, d := range e.Diff {
			fmt.Fprintf(&buf, "  %s\n", d)
		}
	}

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Op == OpClear {
				fmt.Fprintf(&buf, "  [%d] clear\n", event.Seq)
				continue
			}
			fmt.Fprintf(&buf, "  [%d] set %s (slot %d) = %s\n", event.Seq, event.Path, event.Slot, ir.Format(event.Value))
		}
	}

	return buf.String()
}

// assertEvents checks that the pending events are exactly the expected
// list, in slot order. An expected event without a slot matches any slot.
func assertEvents(result *Result, assertion Assertion) error {
	expected := make([]PendingEvent, len(assertion.Events))
	for i, ev := range assertion.Events {
		value, err := ir.FromAny(ev.Value)
		if err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
		slot := -1
		switch {
		case ev.Slot != nil:
			slot = *ev.Slot
		case i < len(result.Events):
			slot = result.Events[i].Slot
		}
		expected[i] = PendingEvent{Slot: slot, Path: ev.Path, Value: value}
	}

	if reflect.DeepEqual(expected, result.Events) {
		return nil
	}
	return &AssertionError{
		Type:     AssertEvents,
		Expected: formatEvents(expected),
		Actual:   formatEvents(result.Events),
		Diff:     pretty.Diff(expected, result.Events),
		Trace:    result.Trace,
	}
}

// assertPending checks the number of pending events.
func assertPending(result *Result, assertion Assertion) error {
	if len(result.Events) == *assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertPending,
		Expected: fmt.Sprintf("%d pending events", *assertion.Count),
		Actual:   fmt.Sprintf("%d pending events: %s", len(result.Events), formatEvents(result.Events)),
		Trace:    result.Trace,
	}
}

// assertSlotSet checks that exactly the listed slots hold an event.
func assertSlotSet(result *Result, assertion Assertion) error {
	want := slices.Clone(assertion.Slots)
	slices.Sort(want)
	want = slices.Compact(want)
	got := make([]int, len(result.Events))
	for i, ev := range result.Events {
		got[i] = ev.Slot
	}
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSlotSet,
		Expected: fmt.Sprintf("slots %v", want),
		Actual:   fmt.Sprintf("slots %v", got),
		Trace:    result.Trace,
	}
}

// assertFinalRecord checks the replayed record against expect using subset
// semantics: nested objects only need the keys they name.
func assertFinalRecord(result *Result, assertion Assertion) error {
	expected, err := ir.FromAny(assertion.Expect)
	if err != nil {
		return fmt.Errorf("final_record: %w", err)
	}
	if path, ok := subsetMatch(expected, result.Record, nil); !ok {
		return &AssertionError{
			Type:     AssertFinalRecord,
			Expected: ir.Format(expected),
			Actual:   ir.Format(result.Record),
			Diff:     mismatchDiff(path, expected, result.Record),
			Trace:    result.Trace,
		}
	}
	return nil
}

// subsetMatch reports whether actual contains expected. On a mismatch it
// returns the path of the first differing key, in sorted key order.
func subsetMatch(expected, actual ir.IRValue, path []string) ([]string, bool) {
	expObj, ok := expected.(ir.IRObject)
	if !ok {
		return path, reflect.DeepEqual(expected, actual)
	}
	actObj, ok := actual.(ir.IRObject)
	if !ok {
		return path, false
	}
	for _, key := range expObj.SortedKeys() {
		sub := append(slices.Clone(path), key)
		actVal, exists := actObj[key]
		if !exists {
			return sub, false
		}
		if p, ok := subsetMatch(expObj[key], actVal, sub); !ok {
			return p, false
		}
	}
	return nil, true
}

// mismatchDiff renders the difference at path between expected and actual.
func mismatchDiff(path []string, expected, actual ir.IRValue) []string {
	exp, act := lookup(expected, path), lookup(actual, path)
	name := strings.Join(path, ".")
	if name == "" {
		name = "record"
	}
	if act == nil {
		return []string{fmt.Sprintf("%s: missing, want %s", name, ir.Format(exp))}
	}
	diffs := pretty.Diff(exp, act)
	for i, d := range diffs {
		diffs[i] = name + ": " + d
	}
	return diffs
}

func lookup(v ir.IRValue, path []string) ir.IRValue {
	for _, key := range path {
		obj, ok := v.(ir.IRObject)
		if !ok {
			return nil
		}
		v = obj[key]
	}
	return v
}

func formatEvents(events []PendingEvent) string {
	if len(events) == 0 {
		return "(none)"
	}
	parts := make([]string, len(events))
	for i, ev := range events {
		parts[i] = fmt.Sprintf("[%d] %s=%s", ev.Slot, ev.Path, ir.Format(ev.Value))
	}
	return strings.Join(parts, ", ")
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEvents:
			err = assertEvents(result, assertion)
		case AssertPending:
			if assertion.Count == nil {
				err = fmt.Errorf("assertion[%d]: pending requires count", i)
			} else {
				err = assertPending(result, assertion)
			}
		case AssertSlotSet:
			err = assertSlotSet(result, assertion)
		case AssertFinalRecord:
			err = assertFinalRecord(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
