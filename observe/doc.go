// Package observe is the runtime half of fieldobs: the pieces generated code
// (and the dynamic model) are built from.
//
// A record R with variant size N owns N slots. Each leaf field of R, counted
// transitively through nested records, is assigned exactly one slot at
// generation time. A setter chain is a view over a contiguous run of those
// slots plus a translation function that wraps a locally produced event into
// whatever the root buffer stores. Descending into a nested record narrows
// the view with Slots.Sub and composes one more wrapping layer; the terminal
// FieldSetter.Set performs exactly one write.
//
// Layout invariants:
//   - Slot indices are fixed per declared field and never derived from input
//   - Sub-views are always strict sub-ranges of the owner's array, never copies
//   - Views are capacity-clamped, so a nested chain cannot reach past its span
//
// Nothing here is safe for concurrent use. Observers are meant to be owned by
// a single goroutine, the same way the records they describe are.
package observe
