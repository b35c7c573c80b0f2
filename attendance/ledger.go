/*
Package attendance implements the clock-in/clock-out ledger.

INVARIANT:
  At most one record per (employee, calendar day) may be open at a time.
  Clocking in while already clocked in is a no-op, not an error; the guard
  makes the operation idempotent within a day.

WORK HOURS:
  Closing a record computes hours worked, rounded to 2 decimal places.
  decimal arithmetic keeps the stored value exact across snapshot
  round-trips (no float drift in the JSON).
*/
package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/hr-console/ledger"
)

// Record is one clock-in, optionally closed by a clock-out.
// Open records have nil ClockOut and nil WorkHours.
type Record struct {
	EmployeeID string           `json:"employee_id"`
	ClockIn    time.Time        `json:"clock_in"`
	ClockOut   *time.Time       `json:"clock_out,omitempty"`
	WorkHours  *decimal.Decimal `json:"work_hours,omitempty"`
}

// Open reports whether the record has not been clocked out yet.
func (r Record) Open() bool { return r.ClockOut == nil }

// Ledger owns the attendance collection, persisted wholesale under
// ledger.KeyAttendance after every mutation.
type Ledger struct {
	mu      sync.Mutex
	store   ledger.Store
	records []Record
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source. Tests use this for deterministic
// clock-in/clock-out math.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New loads the attendance snapshot (if any) and returns the ledger.
func New(ctx context.Context, store ledger.Store, opts ...Option) (*Ledger, error) {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	if _, err := store.Load(ctx, ledger.KeyAttendance, &l.records); err != nil {
		return nil, err
	}
	return l, nil
}

// ClockIn opens a record for today. NoOp if one is already open.
func (l *Ledger) ClockIn(ctx context.Context, employeeID string) (ledger.Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if rec, ok := l.todayLocked(employeeID, now); ok && rec.Open() {
		return ledger.Skip("already clocked in today"), nil
	}

	l.records = append([]Record{{EmployeeID: employeeID, ClockIn: now}}, l.records...)
	return ledger.Apply(), l.persist(ctx)
}

// ClockOut closes today's open record and computes work hours.
// NoOp when there is no open record for today.
func (l *Ledger) ClockOut(ctx context.Context, employeeID string) (ledger.Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	idx := -1
	for i, r := range l.records {
		if r.EmployeeID == employeeID && sameDay(r.ClockIn, now) {
			idx = i
			break
		}
	}
	if idx < 0 || !l.records[idx].Open() {
		return ledger.Skip("not clocked in today"), nil
	}

	hours := decimal.NewFromFloat(now.Sub(l.records[idx].ClockIn).Hours()).Round(2)
	out := now
	l.records[idx].ClockOut = &out
	l.records[idx].WorkHours = &hours
	return ledger.Apply(), l.persist(ctx)
}

// IsClockedIn reports whether today's record exists and is open.
func (l *Ledger) IsClockedIn(employeeID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.todayLocked(employeeID, l.now())
	return ok && rec.Open()
}

// TodayRecord returns today's record for the employee, if any.
func (l *Ledger) TodayRecord(employeeID string) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.todayLocked(employeeID, l.now())
}

// Records returns a copy of the full collection, most recent first.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// RecordsFor returns the employee's records, most recent first.
func (l *Ledger) RecordsFor(employeeID string) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Record
	for _, r := range l.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out
}

// SetRecords replaces the attendance collection. Used by seeding.
func (l *Ledger) SetRecords(ctx context.Context, records []Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = records
	return l.persist(ctx)
}

func (l *Ledger) todayLocked(employeeID string, now time.Time) (Record, bool) {
	for _, r := range l.records {
		if r.EmployeeID == employeeID && sameDay(r.ClockIn, now) {
			return r, true
		}
	}
	return Record{}, false
}

func (l *Ledger) persist(ctx context.Context) error {
	return l.store.Save(ctx, ledger.KeyAttendance, l.records)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
