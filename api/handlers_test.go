package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-console/api"
	"github.com/warp/hr-console/attendance"
	"github.com/warp/hr-console/auth"
	"github.com/warp/hr-console/directory"
	"github.com/warp/hr-console/leave"
	"github.com/warp/hr-console/ledger/store"
	"github.com/warp/hr-console/schedule"
)

// =============================================================================
// TEST SERVER
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemory()
	dir, err := directory.New(ctx, st)
	require.NoError(t, err)
	att, err := attendance.New(ctx, st)
	require.NoError(t, err)
	lv, err := leave.New(ctx, st)
	require.NoError(t, err)
	sch, err := schedule.New(ctx, st)
	require.NoError(t, err)

	require.NoError(t, api.Seed(ctx, st, dir, att, lv, sch))

	a := auth.New("test-secret", time.Hour)
	h := api.NewHandler(dir, att, lv, sch, a, st)
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := doJSON(t, srv, http.MethodPost, "/api/login", "", api.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[api.LoginResponse](t, resp).Token
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	// valid credentials return a token and the sanitized employee record
	resp := doJSON(t, srv, http.MethodPost, "/api/login", "", api.LoginRequest{Username: "emp", Password: "emp123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[api.LoginResponse](t, resp)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "E1001", body.Employee.ID)
	assert.Equal(t, "Employee", body.Employee.Role)

	// wrong password is rejected
	resp = doJSON(t, srv, http.MethodPost, "/api/login", "", api.LoginRequest{Username: "emp", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// unknown username is rejected
	resp = doJSON(t, srv, http.MethodPost, "/api/login", "", api.LoginRequest{Username: "ghost", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticatedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/api/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "emp", "emp123")

	resp := doJSON(t, srv, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Employee api.EmployeeDTO    `json:"employee"`
		Clock    api.ClockStatusDTO `json:"clock"`
	}](t, resp)
	assert.Equal(t, "E1001", body.Employee.ID)
	assert.False(t, body.Clock.ClockedIn)
}

func TestChangePassword(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "emp", "emp123")

	// wrong current password is declined
	resp := doJSON(t, srv, http.MethodPost, "/api/me/password", token,
		api.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpass123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// correct current password applies
	resp = doJSON(t, srv, http.MethodPost, "/api/me/password", token,
		api.ChangePasswordRequest{CurrentPassword: "emp123", NewPassword: "newpass123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "applied", decode[api.DecisionDTO](t, resp).Status)

	// the new password works for login
	login(t, srv, "emp", "newpass123")
}

// =============================================================================
// ROLE GATING
// =============================================================================

func TestManagerOnlyRoutes(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	managerOnly := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/employees"},
		{http.MethodPut, "/api/employees/E1003"},
		{http.MethodDelete, "/api/employees/E1003"},
		{http.MethodPost, "/api/leave/requests/LR003/approve"},
		{http.MethodPost, "/api/leave/requests/LR003/reject"},
		{http.MethodPost, "/api/shifts"},
		{http.MethodPost, "/api/shifts/swaps/SW001/approve"},
		{http.MethodPost, "/api/shifts/swaps/SW001/reject"},
		{http.MethodPost, "/api/admin/seed"},
		{http.MethodGet, "/api/export/attendance.csv"},
	}
	for _, route := range managerOnly {
		resp := doJSON(t, srv, route.method, route.path, empToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s", route.method, route.path)
	}

	// a manager gets past the gate on a read-only route
	resp := doJSON(t, srv, http.MethodGet, "/api/export/attendance.csv", mgrToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeCRUD(t *testing.T) {
	srv := newTestServer(t)
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	// create
	resp := doJSON(t, srv, http.MethodPost, "/api/employees", mgrToken, api.CreateEmployeeRequest{
		ID: "E2001", Name: "Kavya", Department: "IT", Role: "Employee",
		Username: "kavya", Password: "kavya123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// the new credentials work
	login(t, srv, "kavya", "kavya123")

	// duplicate ID conflicts
	resp = doJSON(t, srv, http.MethodPost, "/api/employees", mgrToken, api.CreateEmployeeRequest{
		ID: "E2001", Name: "Other", Department: "IT",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// update
	resp = doJSON(t, srv, http.MethodPut, "/api/employees/E2001", mgrToken, api.CreateEmployeeRequest{
		Name: "Kavya R", Department: "Finance",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[api.EmployeeDTO](t, resp)
	assert.Equal(t, "Kavya R", updated.Name)
	assert.Equal(t, "Finance", updated.Department)

	// get reflects the update
	resp = doJSON(t, srv, http.MethodGet, "/api/employees/E2001", mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kavya R", decode[api.EmployeeDTO](t, resp).Name)

	// delete
	resp = doJSON(t, srv, http.MethodDelete, "/api/employees/E2001", mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, srv, http.MethodGet, "/api/employees/E2001", mgrToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListEmployees_Search(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "emp", "emp123")

	resp := doJSON(t, srv, http.MethodGet, "/api/employees?q=Finance", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decode[[]api.EmployeeDTO](t, resp)
	require.NotEmpty(t, results)
	for _, e := range results {
		assert.Equal(t, "Finance", e.Department)
	}
}

func TestEmployeeDTO_NeverLeaksCredentials(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "emp", "emp123")

	resp := doJSON(t, srv, http.MethodGet, "/api/employees/E1001", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "hash")
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestClockInOutFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "emp", "emp123")

	// clock in
	resp := doJSON(t, srv, http.MethodPost, "/api/attendance/clock-in", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "applied", decode[api.DecisionDTO](t, resp).Status)

	// a second clock-in the same day is a guarded no-op, not an error
	resp = doJSON(t, srv, http.MethodPost, "/api/attendance/clock-in", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "noop", decode[api.DecisionDTO](t, resp).Status)

	// status reflects the open record
	resp = doJSON(t, srv, http.MethodGet, "/api/attendance/status", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[api.ClockStatusDTO](t, resp)
	assert.True(t, status.ClockedIn)
	require.NotNil(t, status.Today)
	assert.Nil(t, status.Today.ClockOut)

	// clock out closes the record and computes hours
	resp = doJSON(t, srv, http.MethodPost, "/api/attendance/clock-out", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "applied", decode[api.DecisionDTO](t, resp).Status)

	resp = doJSON(t, srv, http.MethodGet, "/api/attendance/status", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status = decode[api.ClockStatusDTO](t, resp)
	assert.False(t, status.ClockedIn)
	require.NotNil(t, status.Today)
	require.NotNil(t, status.Today.WorkHours)
}

func TestListAttendance_RoleScoped(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	// an employee sees only their own records
	resp := doJSON(t, srv, http.MethodGet, "/api/attendance", empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	own := decode[[]api.AttendanceDTO](t, resp)
	require.NotEmpty(t, own)
	for _, rec := range own {
		assert.Equal(t, "E1001", rec.EmployeeID)
	}

	// a manager sees everyone's
	resp = doJSON(t, srv, http.MethodGet, "/api/attendance", mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[[]api.AttendanceDTO](t, resp)
	assert.Greater(t, len(all), len(own))
}

// =============================================================================
// LEAVE
// =============================================================================

func TestLeaveSubmitApproveFlow(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	day := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	// submit a single-day casual request
	resp := doJSON(t, srv, http.MethodPost, "/api/leave/requests", empToken, api.SubmitLeaveRequest{
		LeaveType: "Casual", StartDate: day, EndDate: day, Reason: "Errand",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.LeaveRequestDTO](t, resp)
	assert.Equal(t, "Pending", created.Status)
	assert.Equal(t, "E1001", created.EmployeeID)

	// submission alone does not touch the balance
	assert.Equal(t, 5, casualBalance(t, srv, empToken))

	// manager approves; one day is deducted
	resp = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/leave/requests/%s/approve", created.ID), mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "applied", decode[api.DecisionDTO](t, resp).Status)
	assert.Equal(t, 4, casualBalance(t, srv, empToken))

	// approving again is a no-op and deducts nothing
	resp = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/leave/requests/%s/approve", created.ID), mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "noop", decode[api.DecisionDTO](t, resp).Status)
	assert.Equal(t, 4, casualBalance(t, srv, empToken))
}

func casualBalance(t *testing.T, srv *httptest.Server, token string) int {
	t.Helper()
	resp := doJSON(t, srv, http.MethodGet, "/api/leave/balances", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, b := range decode[[]api.LeaveBalanceDTO](t, resp) {
		if b.LeaveType == "Casual" {
			return b.Days
		}
	}
	t.Fatal("no casual balance row")
	return 0
}

func TestLeaveSubmit_ZeroBalanceDeclined(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	// drain the casual balance: 5 days in one request
	start := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	resp := doJSON(t, srv, http.MethodPost, "/api/leave/requests", empToken, api.SubmitLeaveRequest{
		LeaveType: "Casual", StartDate: start, EndDate: end,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.LeaveRequestDTO](t, resp)

	resp = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/leave/requests/%s/approve", created.ID), mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, casualBalance(t, srv, empToken))

	// with a zero balance, a new submission is declined outright
	day := time.Now().AddDate(0, 0, 20).Format("2006-01-02")
	resp = doJSON(t, srv, http.MethodPost, "/api/leave/requests", empToken, api.SubmitLeaveRequest{
		LeaveType: "Casual", StartDate: day, EndDate: day,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision := decode[api.DecisionDTO](t, resp)
	assert.Equal(t, "declined", decision.Status)
	assert.Equal(t, "insufficient balance", decision.Reason)
}

func TestLeaveBalances_ManagerCanReadOthers(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	// an employee cannot read someone else's balances
	resp := doJSON(t, srv, http.MethodGet, "/api/leave/balances?employee_id=E1003", empToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// a manager can
	resp = doJSON(t, srv, http.MethodGet, "/api/leave/balances?employee_id=E1003", mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balances := decode[[]api.LeaveBalanceDTO](t, resp)
	require.NotEmpty(t, balances)
	for _, b := range balances {
		assert.Equal(t, "E1003", b.EmployeeID)
	}
}

func TestListLeaveRequests_RoleScoped(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	resp := doJSON(t, srv, http.MethodGet, "/api/leave/requests", empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, r := range decode[[]api.LeaveRequestDTO](t, resp) {
		assert.Equal(t, "E1001", r.EmployeeID)
	}

	resp = doJSON(t, srv, http.MethodGet, "/api/leave/requests", mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]api.LeaveRequestDTO](t, resp), 8)
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestShiftAssignAndSwapFlow(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	// manager assigns a morning shift
	resp := doJSON(t, srv, http.MethodPost, "/api/shifts", mgrToken, api.AssignShiftRequest{
		EmployeeID: "E1001", Date: date, ShiftType: "Morning",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	shift := decode[api.ShiftDTO](t, resp)
	assert.Equal(t, "09:00", shift.StartTime)
	assert.Equal(t, "17:00", shift.EndTime)

	// the employee requests a swap to the evening shift
	resp = doJSON(t, srv, http.MethodPost, "/api/shifts/swaps", empToken, api.RequestSwapRequest{
		Date: date, FromShift: "Morning", ToShift: "Evening",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	swap := decode[api.SwapRequestDTO](t, resp)
	assert.Equal(t, "Pending", swap.Status)

	// manager approves; the scheduled shift is rewritten
	resp = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/shifts/swaps/%s/approve", swap.ID), mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "applied", decode[api.DecisionDTO](t, resp).Status)

	resp = doJSON(t, srv, http.MethodGet, "/api/shifts", empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rewritten *api.ShiftDTO
	for _, s := range decode[[]api.ShiftDTO](t, resp) {
		if s.ID == shift.ID {
			rewritten = &s
			break
		}
	}
	require.NotNil(t, rewritten)
	assert.Equal(t, "Evening", rewritten.ShiftType)
	assert.Equal(t, "17:00", rewritten.StartTime)
	assert.Equal(t, "01:00", rewritten.EndTime)
}

func TestAssignShift_UnknownEmployee(t *testing.T) {
	srv := newTestServer(t)
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	resp := doJSON(t, srv, http.MethodPost, "/api/shifts", mgrToken, api.AssignShiftRequest{
		EmployeeID: "E9999", Date: date, ShiftType: "Morning",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// ADMIN
// =============================================================================

func TestSeedEndpoint_RestoresFixture(t *testing.T) {
	srv := newTestServer(t)
	empToken := login(t, srv, "emp", "emp123")
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	// drift the state away from the fixture
	resp := doJSON(t, srv, http.MethodPost, "/api/attendance/clock-in", empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// reseed
	resp = doJSON(t, srv, http.MethodPost, "/api/admin/seed", mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "applied", decode[api.DecisionDTO](t, resp).Status)

	// today's open record is gone
	resp = doJSON(t, srv, http.MethodGet, "/api/attendance/status", empToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[api.ClockStatusDTO](t, resp).ClockedIn)
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t)
	mgrToken := login(t, srv, "mgnr", "mgnr123")

	for _, name := range []string{"attendance", "leave-requests", "shifts"} {
		resp := doJSON(t, srv, http.MethodGet, "/api/export/"+name+".csv", mgrToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, name)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv", name)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename=")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), name+"_")

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, raw)
	}
}
