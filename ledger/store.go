/*
Package ledger provides the shared primitives every ledger in the HR console
is built on: whole-snapshot persistence, day-granular dates, the no-throw
decision result, and ID generation.

PERSISTENCE MODEL:
  Each ledger owns one (or two) collections of records. A collection is
  loaded wholesale at construction time and rewritten wholesale after every
  mutation, under a fixed storage key. There are no partial writes: from the
  caller's perspective a mutation replaces the entire collection atomically.

RESULT MODEL:
  Domain operations never fail with errors for business reasons. A guarded
  precondition that does not hold produces a NoOp or Declined Decision; the
  error return is reserved for storage I/O.
*/
package ledger

import "context"

// Storage keys, one per ledger collection.
const (
	KeyEmployees     = "employees"
	KeyAttendance    = "attendance"
	KeyLeaveRequests = "leave-requests"
	KeyLeaveBalances = "leave-balances"
	KeyShifts        = "shifts"
	KeySwaps         = "shift-swaps"
)

// Store persists one JSON-serializable snapshot per key.
type Store interface {
	// Load reads the snapshot stored under key into v.
	// Returns false (and leaves v untouched) when no snapshot exists.
	Load(ctx context.Context, key string, v any) (bool, error)

	// Save replaces the snapshot stored under key with v.
	Save(ctx context.Context, key string, v any) error
}

// Resetter is implemented by stores that can drop all snapshots.
// Used by the reset-to-fixture (seed) operation, never by normal startup.
type Resetter interface {
	Reset(ctx context.Context) error
}
