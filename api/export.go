// export.go - CSV downloads of the ledger collections (manager only).
//
// The writers stream straight from the in-memory collections; column order
// matches the console's table views.
package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"
)

// ExportAttendance writes every attendance record as CSV.
func (h *Handler) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	setCSVHeaders(w, "attendance")
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"employee_id", "clock_in", "clock_out", "work_hours"})
	for _, rec := range h.Attendance.Records() {
		clockOut, hours := "", ""
		if rec.ClockOut != nil {
			clockOut = rec.ClockOut.Format(time.RFC3339)
		}
		if rec.WorkHours != nil {
			hours = rec.WorkHours.String()
		}
		cw.Write([]string{rec.EmployeeID, rec.ClockIn.Format(time.RFC3339), clockOut, hours})
	}
}

// ExportLeaveRequests writes every leave request as CSV.
func (h *Handler) ExportLeaveRequests(w http.ResponseWriter, r *http.Request) {
	setCSVHeaders(w, "leave-requests")
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"id", "employee_id", "leave_type", "start_date", "end_date", "status", "reason"})
	for _, req := range h.Leave.Requests() {
		cw.Write([]string{req.ID, req.EmployeeID, string(req.Type), req.Start.String(), req.End.String(), string(req.Status), req.Reason})
	}
}

// ExportShifts writes every shift as CSV.
func (h *Handler) ExportShifts(w http.ResponseWriter, r *http.Request) {
	setCSVHeaders(w, "shifts")
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"id", "employee_id", "date", "shift_type", "start_time", "end_time"})
	for _, s := range h.Schedule.Shifts() {
		cw.Write([]string{s.ID, s.EmployeeID, s.Date.String(), string(s.Type), s.Start, s.End})
	}
}

func setCSVHeaders(w http.ResponseWriter, name string) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
