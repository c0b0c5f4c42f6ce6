// Package ir holds the record types shared by every classroom package and the
// pure address derivation that keys them.
//
// ir imports nothing internal. The store, engine, harness and cli packages all
// build on it, which keeps record shapes and addressing in one place.
//
// Key constraints:
//   - Addresses are derived, never chosen by callers
//   - An Identity is opaque; ir checks only its length and UTF-8 validity
//   - All JSON tags use snake_case
//   - Ordering uses logical clock values (seq), never wall-clock time
package ir
