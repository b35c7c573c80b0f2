/*
seed.go - Reset-to-fixture loader for demos and development

PURPOSE:
  Populates every ledger with a realistic fixture: a 15-person directory,
  default leave allowances, a week of attendance, scheduled shifts, and
  in-flight leave and swap requests in all three statuses.

HOW SEEDING WORKS:
 1. Reset the store (drop all snapshots)
 2. Replace each ledger's collection and persist it

  Seeding only ever runs when asked for - the `hrconsole seed` command or
  POST /api/admin/seed. Normal startup loads whatever snapshots exist and
  never discards data.

LOGIN FIXTURE:
  emp / emp123    employee role (E1001)
  mgnr / mgnr123  manager role  (E1002)
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/hr-console/attendance"
	"github.com/warp/hr-console/directory"
	"github.com/warp/hr-console/leave"
	"github.com/warp/hr-console/ledger"
	"github.com/warp/hr-console/schedule"
)

// Seed resets the store and loads the demo fixture into every ledger.
func Seed(ctx context.Context, store ledger.Store, dir *directory.Directory, att *attendance.Ledger, lv *leave.Ledger, sch *schedule.Scheduler) error {
	if resetter, ok := store.(ledger.Resetter); ok {
		if err := resetter.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset store: %w", err)
		}
	}

	employees, err := seedEmployees()
	if err != nil {
		return err
	}
	if err := dir.SetEmployees(ctx, employees); err != nil {
		return err
	}
	if err := lv.SetBalances(ctx, seedBalances(employees)); err != nil {
		return err
	}
	if err := lv.SetRequests(ctx, seedLeaveRequests()); err != nil {
		return err
	}
	if err := att.SetRecords(ctx, seedAttendance()); err != nil {
		return err
	}
	if err := sch.SetShifts(ctx, seedShifts()); err != nil {
		return err
	}
	return sch.SetSwapRequests(ctx, seedSwapRequests())
}

func seedEmployees() ([]directory.Employee, error) {
	type cred struct{ username, password string }
	creds := map[string]cred{
		"E1001": {"emp", "emp123"},
		"E1002": {"mgnr", "mgnr123"},
		"E1003": {"vishwa.vajendra", "vishwa123"},
		"E1004": {"lokeshvaran", "lokesh123"},
		"E1005": {"vishwa", "vishwa123"},
	}

	employees := []directory.Employee{
		{ID: "E1001", Name: "Dharani", Department: "Project Management", Role: directory.RoleEmployee,
			Email: "dharani@company.com", Phone: "+1-555-0101", Designation: "Project Manager",
			ManagerID: "E1002", JoiningDate: "2022-01-15"},
		{ID: "E1002", Name: "Jyothish", Department: "Sales", Role: directory.RoleManager,
			Email: "jyothish@company.com", Phone: "+1-555-0102", Designation: "Sales Manager",
			JoiningDate: "2020-03-10"},
		{ID: "E1003", Name: "Vishwa Vajendra", Department: "IT", Role: directory.RoleEmployee,
			Email: "vishwa.vajendra@company.com", Phone: "+1-555-0103", Designation: "Software Developer",
			ManagerID: "E1009", JoiningDate: "2021-06-20"},
		{ID: "E1004", Name: "Lokeshvaran", Department: "Marketing", Role: directory.RoleEmployee,
			Email: "lokeshvaran@company.com", Phone: "+1-555-0104", Designation: "Marketing Specialist",
			ManagerID: "E1005", JoiningDate: "2022-09-05"},
		{ID: "E1005", Name: "Vishwa", Department: "Finance", Role: directory.RoleManager,
			Email: "vishwa@company.com", Phone: "+1-555-0105", Designation: "Finance Manager",
			JoiningDate: "2019-01-15"},
		{ID: "E1006", Name: "Dhanush", Department: "HR", Role: directory.RoleEmployee},
		{ID: "E1007", Name: "Abinaya", Department: "Operations", Role: directory.RoleEmployee},
		{ID: "E1008", Name: "Rahul", Department: "IT", Role: directory.RoleEmployee},
		{ID: "E1009", Name: "Pranav", Department: "Marketing", Role: directory.RoleEmployee},
		{ID: "E1010", Name: "Nithya", Department: "Finance", Role: directory.RoleEmployee},
		{ID: "E1011", Name: "Sangavi", Department: "HR", Role: directory.RoleEmployee},
		{ID: "E1012", Name: "Aswinya", Department: "Operations", Role: directory.RoleEmployee},
		{ID: "E1013", Name: "Dharun", Department: "IT", Role: directory.RoleEmployee},
		{ID: "E1014", Name: "Punith", Department: "Sales", Role: directory.RoleEmployee},
		{ID: "E1015", Name: "Madesh", Department: "Marketing", Role: directory.RoleEmployee},
	}

	for i := range employees {
		c, ok := creds[employees[i].ID]
		if !ok {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash fixture password: %w", err)
		}
		employees[i].Username = c.username
		employees[i].PasswordHash = string(hash)
	}
	return employees, nil
}

// seedBalances gives every employee the default allowances:
// Sick 10, Vacation 15, Casual 5.
func seedBalances(employees []directory.Employee) []leave.Balance {
	allowances := map[leave.Type]int{
		leave.TypeSick:     10,
		leave.TypeVacation: 15,
		leave.TypeCasual:   5,
	}

	var balances []leave.Balance
	for _, e := range employees {
		for _, t := range leave.Types() {
			balances = append(balances, leave.Balance{EmployeeID: e.ID, Type: t, Days: allowances[t]})
		}
	}
	return balances
}

func seedLeaveRequests() []leave.Request {
	today := ledger.DateOf(time.Now())
	return []leave.Request{
		{ID: "LR001", EmployeeID: "E1001", Type: leave.TypeVacation, Start: today.AddDays(-12), End: today.AddDays(-10), Status: leave.StatusApproved, Reason: "Family vacation"},
		{ID: "LR002", EmployeeID: "E1003", Type: leave.TypeSick, Start: today.AddDays(-7), End: today.AddDays(-7), Status: leave.StatusApproved, Reason: "Flu"},
		{ID: "LR003", EmployeeID: "E1004", Type: leave.TypeCasual, Start: today.AddDays(2), End: today.AddDays(2), Status: leave.StatusPending, Reason: "Personal work"},
		{ID: "LR004", EmployeeID: "E1006", Type: leave.TypeVacation, Start: today.AddDays(5), End: today.AddDays(7), Status: leave.StatusPending, Reason: "Holiday break"},
		{ID: "LR005", EmployeeID: "E1008", Type: leave.TypeSick, Start: today.AddDays(-4), End: today.AddDays(-3), Status: leave.StatusApproved, Reason: "Medical appointment"},
		{ID: "LR006", EmployeeID: "E1010", Type: leave.TypeCasual, Start: today.AddDays(-2), End: today.AddDays(-2), Status: leave.StatusRejected, Reason: "Personal event"},
		{ID: "LR007", EmployeeID: "E1012", Type: leave.TypeVacation, Start: today.AddDays(10), End: today.AddDays(14), Status: leave.StatusPending, Reason: "New Year vacation"},
		{ID: "LR008", EmployeeID: "E1014", Type: leave.TypeSick, Start: today.AddDays(-6), End: today.AddDays(-6), Status: leave.StatusApproved, Reason: "Doctor visit"},
	}
}

// seedAttendance generates closed records for the previous five days,
// 09:00 to 17:30, for the first five employees.
func seedAttendance() []attendance.Record {
	hours := decimal.NewFromFloat(8.5)
	employeeIDs := []string{"E1001", "E1002", "E1003", "E1004", "E1005"}

	var records []attendance.Record
	for day := 1; day <= 5; day++ {
		base := time.Now().AddDate(0, 0, -day)
		for _, id := range employeeIDs {
			in := time.Date(base.Year(), base.Month(), base.Day(), 9, 0, 0, 0, base.Location())
			out := in.Add(8*time.Hour + 30*time.Minute)
			records = append(records, attendance.Record{
				EmployeeID: id,
				ClockIn:    in,
				ClockOut:   &out,
				WorkHours:  &hours,
			})
		}
	}
	return records
}

func seedShifts() []schedule.Shift {
	today := ledger.DateOf(time.Now())

	mk := func(id, employeeID string, date ledger.Date, typ schedule.ShiftType) schedule.Shift {
		start, end := typ.Times()
		return schedule.Shift{ID: id, EmployeeID: employeeID, Date: date, Type: typ, Start: start, End: end}
	}

	return []schedule.Shift{
		mk("S001", "E1001", today, schedule.Morning),
		mk("S002", "E1002", today, schedule.Evening),
		mk("S003", "E1003", today.AddDays(1), schedule.Morning),
		mk("S004", "E1004", today.AddDays(1), schedule.Night),
		mk("S005", "E1005", today.AddDays(2), schedule.Evening),
		mk("S006", "E1007", today.AddDays(2), schedule.Morning),
		mk("S007", "E1011", today.AddDays(3), schedule.Morning),
	}
}

func seedSwapRequests() []schedule.SwapRequest {
	today := ledger.DateOf(time.Now())

	mk := func(id, employeeID string, date ledger.Date, from, to schedule.ShiftType, status schedule.Status) schedule.SwapRequest {
		return schedule.SwapRequest{ID: id, EmployeeID: employeeID, Date: date, From: from, To: to, Status: status, RequestedBy: employeeID}
	}

	return []schedule.SwapRequest{
		mk("SW001", "E1003", today.AddDays(1), schedule.Evening, schedule.Morning, schedule.StatusPending),
		mk("SW002", "E1007", today.AddDays(2), schedule.Night, schedule.Evening, schedule.StatusApproved),
		mk("SW003", "E1011", today.AddDays(3), schedule.Morning, schedule.Night, schedule.StatusRejected),
		mk("SW004", "E1005", today.AddDays(4), schedule.Evening, schedule.Morning, schedule.StatusPending),
	}
}
