package ledger

// Outcome classifies what a ledger operation did.
type Outcome string

const (
	// Applied: the operation ran and mutated state.
	Applied Outcome = "applied"
	// NoOp: a guard condition held and nothing changed (idempotent calls,
	// unknown IDs, terminal statuses).
	NoOp Outcome = "noop"
	// Declined: the operation was refused for a business reason the caller
	// should surface (e.g. insufficient balance).
	Declined Outcome = "declined"
)

// Decision is the result of a fallible ledger operation. It replaces an
// error taxonomy: declined and skipped actions are ordinary values, and the
// error return of an operation only ever reports storage I/O failure.
type Decision struct {
	Outcome Outcome
	Reason  string
}

// Apply is the Decision for a mutation that went through.
func Apply() Decision { return Decision{Outcome: Applied} }

// Skip is the Decision for a guarded no-op.
func Skip(reason string) Decision { return Decision{Outcome: NoOp, Reason: reason} }

// Decline is the Decision for a refused operation.
func Decline(reason string) Decision { return Decision{Outcome: Declined, Reason: reason} }

// OK reports whether the operation mutated state.
func (d Decision) OK() bool { return d.Outcome == Applied }
