package leave

import "github.com/warp/hr-console/ledger"

// Type is a leave category with its own per-employee balance.
type Type string

const (
	TypeSick     Type = "Sick"
	TypeVacation Type = "Vacation"
	TypeCasual   Type = "Casual"
)

// Types lists every leave category.
func Types() []Type { return []Type{TypeSick, TypeVacation, TypeCasual} }

// Valid reports whether t is a known leave type.
func (t Type) Valid() bool {
	switch t {
	case TypeSick, TypeVacation, TypeCasual:
		return true
	}
	return false
}

// Status is the leave request lifecycle: Pending -> {Approved | Rejected},
// both terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Balance is one (employee, leave type) row. Days never goes negative.
type Balance struct {
	EmployeeID string `json:"employee_id"`
	Type       Type   `json:"leave_type"`
	Days       int    `json:"balance_days"`
}

// Request is a leave request. Once Approved or Rejected it never
// transitions again.
type Request struct {
	ID         string      `json:"id"`
	EmployeeID string      `json:"employee_id"`
	Type       Type        `json:"leave_type"`
	Start      ledger.Date `json:"start_date"`
	End        ledger.Date `json:"end_date"`
	Status     Status      `json:"status"`
	Reason     string      `json:"reason,omitempty"`
}
