// Package ir provides the intermediate representation shared by the
// fieldobs compiler, layout engine, generator and dynamic model.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Field order is declaration order and is significant (it fixes slot order)
//   - NO float values in IRValue - use int64 for numbers
//   - All JSON tags use snake_case
//   - Shape hashes use RFC 8785 canonical JSON with domain separation
package ir
