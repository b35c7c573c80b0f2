/*
Package leave implements the leave-balance/request state machine.

LIFECYCLE:
  Submit creates a Pending request. A manager action moves it to Approved
  (which settles the balance) or Rejected (no balance effect). Both are
  terminal: approving or rejecting a non-Pending request is a no-op, so a
  double approval can never double-deduct.

SETTLEMENT:
  daysRequested = inclusive day count between start and end. The deduction
  is clamped at zero: a request spanning more days than the remaining
  balance silently under-deducts rather than driving the balance negative.

SUBMISSION CHECK:
  Submit only requires a *positive* balance for the leave type, not
  sufficiency for the full span; the clamp at settlement covers the
  difference.

ORDERING:
  Requests are kept most-recently-submitted-first.
*/
package leave

import (
	"context"
	"math"
	"sync"

	"github.com/warp/hr-console/ledger"
)

// Ledger owns the balance and request collections, persisted wholesale
// under ledger.KeyLeaveBalances / ledger.KeyLeaveRequests.
type Ledger struct {
	mu       sync.Mutex
	store    ledger.Store
	balances []Balance
	requests []Request
}

// New loads both snapshots (if any) and returns the ledger.
func New(ctx context.Context, store ledger.Store) (*Ledger, error) {
	l := &Ledger{store: store}
	if _, err := store.Load(ctx, ledger.KeyLeaveBalances, &l.balances); err != nil {
		return nil, err
	}
	if _, err := store.Load(ctx, ledger.KeyLeaveRequests, &l.requests); err != nil {
		return nil, err
	}
	return l, nil
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// Balances returns all balance rows for the employee.
func (l *Ledger) Balances(employeeID string) []Balance {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Balance
	for _, b := range l.balances {
		if b.EmployeeID == employeeID {
			out = append(out, b)
		}
	}
	return out
}

// AllBalances returns a copy of every balance row.
func (l *Ledger) AllBalances() []Balance {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Balance, len(l.balances))
	copy(out, l.balances)
	return out
}

// Requests returns all requests, most recently submitted first.
func (l *Ledger) Requests() []Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Request, len(l.requests))
	copy(out, l.requests)
	return out
}

// RequestsFor returns the employee's requests, most recent first.
func (l *Ledger) RequestsFor(employeeID string) []Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Request
	for _, r := range l.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out
}

// Request returns the request with the given ID.
func (l *Ledger) Request(id string) (Request, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.requests {
		if r.ID == id {
			return r, true
		}
	}
	return Request{}, false
}

// =============================================================================
// COMMANDS
// =============================================================================

// Submit creates a Pending request. Declined (no mutation) when the
// employee's balance row for the type is absent or not positive.
func (l *Ledger) Submit(ctx context.Context, employeeID string, typ Type, start, end ledger.Date, reason string) (Request, ledger.Decision, error) {
	if !typ.Valid() {
		return Request{}, ledger.Decline("unknown leave type"), nil
	}
	if end.Before(start.Time) {
		return Request{}, ledger.Decline("end date before start date"), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bal, ok := l.balanceLocked(employeeID, typ)
	if !ok || bal.Days <= 0 {
		return Request{}, ledger.Decline("insufficient balance"), nil
	}

	req := Request{
		ID:         ledger.NewID("LR"),
		EmployeeID: employeeID,
		Type:       typ,
		Start:      start,
		End:        end,
		Status:     StatusPending,
		Reason:     reason,
	}
	l.requests = append([]Request{req}, l.requests...)
	return req, ledger.Apply(), l.persistRequests(ctx)
}

// Approve moves a Pending request to Approved and settles the balance.
// NoOp on unknown IDs and on requests that are already terminal.
func (l *Ledger) Approve(ctx context.Context, requestID string) (ledger.Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.requestIndexLocked(requestID)
	if idx < 0 {
		return ledger.Skip("unknown request"), nil
	}
	if l.requests[idx].Status != StatusPending {
		return ledger.Skip("request is not pending"), nil
	}

	l.requests[idx].Status = StatusApproved
	l.settleLocked(l.requests[idx])

	if err := l.persistRequests(ctx); err != nil {
		return ledger.Decision{}, err
	}
	return ledger.Apply(), l.persistBalances(ctx)
}

// Reject moves a Pending request to Rejected. The balance is untouched.
func (l *Ledger) Reject(ctx context.Context, requestID string) (ledger.Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.requestIndexLocked(requestID)
	if idx < 0 {
		return ledger.Skip("unknown request"), nil
	}
	if l.requests[idx].Status != StatusPending {
		return ledger.Skip("request is not pending"), nil
	}

	l.requests[idx].Status = StatusRejected
	return ledger.Apply(), l.persistRequests(ctx)
}

// SetBalances replaces the balance collection. Used by seeding.
func (l *Ledger) SetBalances(ctx context.Context, balances []Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = balances
	return l.persistBalances(ctx)
}

// SetRequests replaces the request collection. Used by seeding.
func (l *Ledger) SetRequests(ctx context.Context, requests []Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = requests
	return l.persistRequests(ctx)
}

// =============================================================================
// INTERNALS
// =============================================================================

// settleLocked deducts the inclusive day count from the matching balance
// row, clamped at zero.
func (l *Ledger) settleLocked(req Request) {
	days := daysRequested(req.Start, req.End)
	for i, b := range l.balances {
		if b.EmployeeID == req.EmployeeID && b.Type == req.Type {
			next := b.Days - days
			if next < 0 {
				next = 0
			}
			l.balances[i].Days = next
			return
		}
	}
}

// daysRequested counts calendar days from start to end, inclusive of both
// endpoints.
func daysRequested(start, end ledger.Date) int {
	return int(math.Ceil(end.Sub(start.Time).Hours()/24)) + 1
}

func (l *Ledger) balanceLocked(employeeID string, typ Type) (Balance, bool) {
	for _, b := range l.balances {
		if b.EmployeeID == employeeID && b.Type == typ {
			return b, true
		}
	}
	return Balance{}, false
}

func (l *Ledger) requestIndexLocked(id string) int {
	for i, r := range l.requests {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) persistRequests(ctx context.Context) error {
	return l.store.Save(ctx, ledger.KeyLeaveRequests, l.requests)
}

func (l *Ledger) persistBalances(ctx context.Context) error {
	return l.store.Save(ctx, ledger.KeyLeaveBalances, l.balances)
}
