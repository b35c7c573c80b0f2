package schedule

import "github.com/warp/hr-console/ledger"

// ShiftType determines a shift's fixed start/end times.
type ShiftType string

const (
	Morning ShiftType = "Morning"
	Evening ShiftType = "Evening"
	Night   ShiftType = "Night"
)

// Valid reports whether t is a known shift type.
func (t ShiftType) Valid() bool {
	switch t {
	case Morning, Evening, Night:
		return true
	}
	return false
}

// Times returns the fixed clock times for the shift type.
// Evening and Night wrap past midnight; the values are clock strings, not
// timestamps, so the wrap carries no day offset.
func (t ShiftType) Times() (start, end string) {
	switch t {
	case Evening:
		return "17:00", "01:00"
	case Night:
		return "01:00", "09:00"
	default:
		return "09:00", "17:00"
	}
}

// Status is the swap request lifecycle: Pending -> {Approved | Rejected},
// both terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Shift is one scheduled assignment. Start/End are derived from Type and
// only change when an associated swap is approved.
type Shift struct {
	ID         string      `json:"id"`
	EmployeeID string      `json:"employee_id"`
	Date       ledger.Date `json:"date"`
	Type       ShiftType   `json:"shift_type"`
	Start      string      `json:"start_time"`
	End        string      `json:"end_time"`
}

// SwapRequest asks to change an employee's shift type on a given date.
// Approval mutates the matching shifts; rejection leaves them untouched.
type SwapRequest struct {
	ID          string      `json:"id"`
	EmployeeID  string      `json:"employee_id"`
	Date        ledger.Date `json:"date"`
	From        ShiftType   `json:"from_shift"`
	To          ShiftType   `json:"to_shift"`
	Status      Status      `json:"status"`
	RequestedBy string      `json:"requested_by"`
}
