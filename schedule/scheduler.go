/*
Package schedule implements shift assignment and the swap-approval workflow.

SWAP WORKFLOW:
  An employee requests a swap (from one shift type to another on a date);
  the schedule is untouched until a manager approves. Approval transitions
  the request and rewrites the matching shifts in one mutation; rejection
  only transitions the request. Both outcomes are terminal.

FAN-OUT:
  Assignment has no per-day uniqueness constraint, so an employee may hold
  several shifts on the same date. An approved swap rewrites every shift
  matching (employee, date), not just the one matching the from-type.
*/
package schedule

import (
	"context"
	"sync"

	"github.com/warp/hr-console/ledger"
)

// Scheduler owns the shift and swap-request collections, persisted
// wholesale under ledger.KeyShifts / ledger.KeySwaps.
type Scheduler struct {
	mu     sync.Mutex
	store  ledger.Store
	shifts []Shift
	swaps  []SwapRequest
}

// New loads both snapshots (if any) and returns the scheduler.
func New(ctx context.Context, store ledger.Store) (*Scheduler, error) {
	s := &Scheduler{store: store}
	if _, err := store.Load(ctx, ledger.KeyShifts, &s.shifts); err != nil {
		return nil, err
	}
	if _, err := store.Load(ctx, ledger.KeySwaps, &s.swaps); err != nil {
		return nil, err
	}
	return s, nil
}

// Shifts returns a copy of every shift, most recently assigned first.
func (s *Scheduler) Shifts() []Shift {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Shift, len(s.shifts))
	copy(out, s.shifts)
	return out
}

// EmployeeShifts returns the employee's shifts.
func (s *Scheduler) EmployeeShifts(employeeID string) []Shift {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Shift
	for _, sh := range s.shifts {
		if sh.EmployeeID == employeeID {
			out = append(out, sh)
		}
	}
	return out
}

// SwapRequests returns a copy of every swap request, most recent first.
func (s *Scheduler) SwapRequests() []SwapRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SwapRequest, len(s.swaps))
	copy(out, s.swaps)
	return out
}

// SwapRequestsFor returns the employee's swap requests.
func (s *Scheduler) SwapRequestsFor(employeeID string) []SwapRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []SwapRequest
	for _, sw := range s.swaps {
		if sw.EmployeeID == employeeID {
			out = append(out, sw)
		}
	}
	return out
}

// Assign creates a shift with times derived from the type's lookup table.
func (s *Scheduler) Assign(ctx context.Context, employeeID string, date ledger.Date, typ ShiftType) (Shift, ledger.Decision, error) {
	if !typ.Valid() {
		return Shift{}, ledger.Decline("unknown shift type"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := typ.Times()
	shift := Shift{
		ID:         ledger.NewID("S"),
		EmployeeID: employeeID,
		Date:       date,
		Type:       typ,
		Start:      start,
		End:        end,
	}
	s.shifts = append([]Shift{shift}, s.shifts...)
	return shift, ledger.Apply(), s.persistShifts(ctx)
}

// RequestSwap creates a Pending swap request. The schedule is untouched
// until approval.
func (s *Scheduler) RequestSwap(ctx context.Context, employeeID string, date ledger.Date, from, to ShiftType) (SwapRequest, ledger.Decision, error) {
	if !from.Valid() || !to.Valid() {
		return SwapRequest{}, ledger.Decline("unknown shift type"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	swap := SwapRequest{
		ID:          ledger.NewID("SW"),
		EmployeeID:  employeeID,
		Date:        date,
		From:        from,
		To:          to,
		Status:      StatusPending,
		RequestedBy: employeeID,
	}
	s.swaps = append([]SwapRequest{swap}, s.swaps...)
	return swap, ledger.Apply(), s.persistSwaps(ctx)
}

// ApproveSwap transitions the swap to Approved and rewrites every shift
// matching (employee, date) to the target type with recomputed times.
// NoOp on unknown IDs and non-Pending swaps.
func (s *Scheduler) ApproveSwap(ctx context.Context, swapID string) (ledger.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.swapIndexLocked(swapID)
	if idx < 0 {
		return ledger.Skip("unknown swap request"), nil
	}
	swap := s.swaps[idx]
	if swap.Status != StatusPending {
		return ledger.Skip("swap request is not pending"), nil
	}

	s.swaps[idx].Status = StatusApproved

	start, end := swap.To.Times()
	for i, sh := range s.shifts {
		if sh.EmployeeID == swap.EmployeeID && sh.Date.Equal(swap.Date) {
			s.shifts[i].Type = swap.To
			s.shifts[i].Start = start
			s.shifts[i].End = end
		}
	}

	if err := s.persistSwaps(ctx); err != nil {
		return ledger.Decision{}, err
	}
	return ledger.Apply(), s.persistShifts(ctx)
}

// RejectSwap transitions the swap to Rejected; the schedule is untouched.
// NoOp on unknown IDs and non-Pending swaps.
func (s *Scheduler) RejectSwap(ctx context.Context, swapID string) (ledger.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.swapIndexLocked(swapID)
	if idx < 0 {
		return ledger.Skip("unknown swap request"), nil
	}
	if s.swaps[idx].Status != StatusPending {
		return ledger.Skip("swap request is not pending"), nil
	}

	s.swaps[idx].Status = StatusRejected
	return ledger.Apply(), s.persistSwaps(ctx)
}

// SetShifts replaces the shift collection. Used by seeding.
func (s *Scheduler) SetShifts(ctx context.Context, shifts []Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shifts = shifts
	return s.persistShifts(ctx)
}

// SetSwapRequests replaces the swap collection. Used by seeding.
func (s *Scheduler) SetSwapRequests(ctx context.Context, swaps []SwapRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.swaps = swaps
	return s.persistSwaps(ctx)
}

func (s *Scheduler) swapIndexLocked(id string) int {
	for i, sw := range s.swaps {
		if sw.ID == id {
			return i
		}
	}
	return -1
}

func (s *Scheduler) persistShifts(ctx context.Context) error {
	return s.store.Save(ctx, ledger.KeyShifts, s.shifts)
}

func (s *Scheduler) persistSwaps(ctx context.Context) error {
	return s.store.Save(ctx, ledger.KeySwaps, s.swaps)
}
