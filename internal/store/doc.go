// Package store provides SQLite-backed storage for classroom records.
//
// Every record lives at a derived address (see internal/ir/hash.go). The store
// never derives addresses itself and never decides who may write; it offers:
//   - Create: conditional on absence, atomic via INSERT ... ON CONFLICT DO NOTHING
//   - Get: explicit (record, found) result, never an error for absence
//   - Replace: update in place, conditional on presence
//   - Destroy: conditional on presence; the slot reads back as empty
//   - AppendEvent: lifecycle log written in the same transaction
//
// All mutations go through RunInTx so a request either commits every write or
// none of them.
//
// # Sentinel Errors
//
//   - ErrOccupied: Create targeted an address that already holds a record
//   - ErrAbsent: Replace or Destroy targeted an empty address
//
// Callers translate these into their own error taxonomy.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single connection: SQLite allows one writer, so transactions queue on the pool
package store
