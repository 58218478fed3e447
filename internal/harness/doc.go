// Package harness runs field-tracking scenarios against the dynamic model.
//
// A scenario declares a schema, picks a root record, drives the root
// observer's setter chain through a list of steps, and then asserts on the
// pending events and on the record obtained by replaying them onto a zero
// value.
//
// # Scenario Format
//
//	name: parent_child
//	description: "Two-level nesting keeps slot order"
//	schema:
//	  package: records
//	  records:
//	    - name: Child
//	      fields:
//	        - {name: First, type: int}
//	        - {name: Second, type: int}
//	    - name: Parent
//	      variance: 3
//	      fields:
//	        - {name: Leaf, type: int}
//	        - {name: Child, record: Child}
//	record: Parent
//	steps:
//	  - set: Leaf
//	    value: 7
//	  - set: Child.Second
//	    value: 9
//	assertions:
//	  - type: events
//	    events:
//	      - {path: Leaf, slot: 0, value: 7}
//	      - {path: Child.Second, slot: 2, value: 9}
//	  - type: final_record
//	    expect: {Leaf: 7, Child: {Second: 9}}
//
// Instead of an inline schema, schema_file may name a .cue or .yaml schema
// relative to the scenario file. A step is either a set (path and value) or
// "clear: true", which discards every pending event.
//
// # Assertion Types
//
//   - events: the pending events, in slot order, are exactly the listed ones
//   - pending: exactly count events are pending
//   - slot_set: the listed slots hold an event, and no others do
//   - final_record: replaying the events yields a record matching expect
//     (subset match on nested objects)
//
// # Determinism
//
// Scenarios involve no clocks or randomness. Every run of a scenario
// produces the same trace, so traces are compared against golden files
// (testdata/golden/<name>.golden) serialized with ir.MarshalCanonical.
package harness
