/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Credentials in
  particular never leave the server: EmployeeDTO has no password field.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"time"

	"github.com/warp/hr-console/attendance"
	"github.com/warp/hr-console/directory"
	"github.com/warp/hr-console/leave"
	"github.com/warp/hr-console/ledger"
	"github.com/warp/hr-console/schedule"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation,omitempty"`
	Username    string `json:"username,omitempty"`
	ManagerID   string `json:"manager_id,omitempty"`
	JoiningDate string `json:"joining_date,omitempty"`
}

func toEmployeeDTO(e directory.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:          e.ID,
		Name:        e.Name,
		Department:  e.Department,
		Role:        string(e.Role),
		Email:       e.Email,
		Phone:       e.Phone,
		Designation: e.Designation,
		Username:    e.Username,
		ManagerID:   e.ManagerID,
		JoiningDate: e.JoiningDate,
	}
}

func toEmployeeDTOs(es []directory.Employee) []EmployeeDTO {
	dtos := make([]EmployeeDTO, len(es))
	for i, e := range es {
		dtos[i] = toEmployeeDTO(e)
	}
	return dtos
}

// CreateEmployeeRequest is the request to create an employee. Password, if
// set, is hashed before the record is stored.
type CreateEmployeeRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	ManagerID   string `json:"manager_id,omitempty"`
	JoiningDate string `json:"joining_date,omitempty"`
}

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string      `json:"token"`
	Employee EmployeeDTO `json:"employee"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceDTO represents one clock-in/clock-out record.
type AttendanceDTO struct {
	EmployeeID string   `json:"employee_id"`
	ClockIn    string   `json:"clock_in"`
	ClockOut   *string  `json:"clock_out,omitempty"`
	WorkHours  *float64 `json:"work_hours,omitempty"`
}

func toAttendanceDTO(r attendance.Record) AttendanceDTO {
	dto := AttendanceDTO{
		EmployeeID: r.EmployeeID,
		ClockIn:    r.ClockIn.Format(time.RFC3339),
	}
	if r.ClockOut != nil {
		out := r.ClockOut.Format(time.RFC3339)
		dto.ClockOut = &out
	}
	if r.WorkHours != nil {
		hours := r.WorkHours.InexactFloat64()
		dto.WorkHours = &hours
	}
	return dto
}

func toAttendanceDTOs(rs []attendance.Record) []AttendanceDTO {
	dtos := make([]AttendanceDTO, len(rs))
	for i, r := range rs {
		dtos[i] = toAttendanceDTO(r)
	}
	return dtos
}

// ClockStatusDTO reports whether the employee is currently clocked in.
type ClockStatusDTO struct {
	EmployeeID string         `json:"employee_id"`
	ClockedIn  bool           `json:"clocked_in"`
	Today      *AttendanceDTO `json:"today,omitempty"`
}

// =============================================================================
// LEAVE
// =============================================================================

// LeaveBalanceDTO is one (employee, leave type) balance row.
type LeaveBalanceDTO struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Days       int    `json:"balance_days"`
}

func toLeaveBalanceDTOs(bs []leave.Balance) []LeaveBalanceDTO {
	dtos := make([]LeaveBalanceDTO, len(bs))
	for i, b := range bs {
		dtos[i] = LeaveBalanceDTO{EmployeeID: b.EmployeeID, LeaveType: string(b.Type), Days: b.Days}
	}
	return dtos
}

// LeaveRequestDTO represents a leave request.
type LeaveRequestDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

func toLeaveRequestDTO(r leave.Request) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		LeaveType:  string(r.Type),
		StartDate:  r.Start.String(),
		EndDate:    r.End.String(),
		Status:     string(r.Status),
		Reason:     r.Reason,
	}
}

func toLeaveRequestDTOs(rs []leave.Request) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(rs))
	for i, r := range rs {
		dtos[i] = toLeaveRequestDTO(r)
	}
	return dtos
}

// SubmitLeaveRequest is the request body for submitting leave.
type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents one scheduled shift.
type ShiftDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	ShiftType  string `json:"shift_type"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func toShiftDTO(s schedule.Shift) ShiftDTO {
	return ShiftDTO{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Date:       s.Date.String(),
		ShiftType:  string(s.Type),
		StartTime:  s.Start,
		EndTime:    s.End,
	}
}

func toShiftDTOs(ss []schedule.Shift) []ShiftDTO {
	dtos := make([]ShiftDTO, len(ss))
	for i, s := range ss {
		dtos[i] = toShiftDTO(s)
	}
	return dtos
}

// AssignShiftRequest is the request body for a shift assignment.
type AssignShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	ShiftType  string `json:"shift_type"`
}

// SwapRequestDTO represents a shift swap request.
type SwapRequestDTO struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Date        string `json:"date"`
	FromShift   string `json:"from_shift"`
	ToShift     string `json:"to_shift"`
	Status      string `json:"status"`
	RequestedBy string `json:"requested_by"`
}

func toSwapRequestDTO(s schedule.SwapRequest) SwapRequestDTO {
	return SwapRequestDTO{
		ID:          s.ID,
		EmployeeID:  s.EmployeeID,
		Date:        s.Date.String(),
		FromShift:   string(s.From),
		ToShift:     string(s.To),
		Status:      string(s.Status),
		RequestedBy: s.RequestedBy,
	}
}

func toSwapRequestDTOs(ss []schedule.SwapRequest) []SwapRequestDTO {
	dtos := make([]SwapRequestDTO, len(ss))
	for i, s := range ss {
		dtos[i] = toSwapRequestDTO(s)
	}
	return dtos
}

// RequestSwapRequest is the request body for a shift swap.
type RequestSwapRequest struct {
	Date      string `json:"date"`
	FromShift string `json:"from_shift"`
	ToShift   string `json:"to_shift"`
}

// =============================================================================
// DECISIONS
// =============================================================================

// DecisionDTO surfaces a ledger Decision to the caller.
type DecisionDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func toDecisionDTO(d ledger.Decision) DecisionDTO {
	return DecisionDTO{Status: string(d.Outcome), Reason: d.Reason}
}
