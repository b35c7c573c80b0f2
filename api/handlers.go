/*
handlers.go - HTTP API handlers for the HR console

PURPOSE:
  Exposes the ledgers via a JSON REST API. Handles HTTP request/response
  and delegates business decisions to the domain packages.

ENDPOINTS:
  Auth:
    POST   /api/login                     Mock login, returns a JWT
    GET    /api/me                        Current user + clock status
    POST   /api/me/password               Change own password

  Employees:
    GET    /api/employees                 List / search (?q=)
    GET    /api/employees/{id}            Get one
    POST   /api/employees                 Create           (manager)
    PUT    /api/employees/{id}            Update           (manager)
    DELETE /api/employees/{id}            Remove           (manager)

  Attendance:
    GET    /api/attendance                Own records; all for managers
    GET    /api/attendance/status         Own clock status
    POST   /api/attendance/clock-in       Clock in
    POST   /api/attendance/clock-out      Clock out

  Leave:
    GET    /api/leave/balances            Own; any via ?employee_id= (manager)
    GET    /api/leave/requests            Own; all for managers
    POST   /api/leave/requests            Submit
    POST   /api/leave/requests/{id}/approve   (manager)
    POST   /api/leave/requests/{id}/reject    (manager)

  Shifts:
    GET    /api/shifts                    Own; all for managers
    POST   /api/shifts                    Assign           (manager)
    GET    /api/shifts/swaps              Own; all for managers
    POST   /api/shifts/swaps              Request a swap
    POST   /api/shifts/swaps/{id}/approve     (manager)
    POST   /api/shifts/swaps/{id}/reject      (manager)

  Admin:
    POST   /api/admin/seed                Reset to fixture (manager)
    GET    /api/export/{name}.csv         CSV exports      (manager)

ERROR HANDLING:
  Domain outcomes are not HTTP errors. A guarded no-op or a declined
  operation comes back 200/409 with a DecisionDTO; 4xx/5xx is reserved for
  malformed input, unknown resources and storage failures.
*/
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/hr-console/attendance"
	"github.com/warp/hr-console/auth"
	"github.com/warp/hr-console/directory"
	"github.com/warp/hr-console/leave"
	"github.com/warp/hr-console/ledger"
	"github.com/warp/hr-console/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Directory  *directory.Directory
	Attendance *attendance.Ledger
	Leave      *leave.Ledger
	Schedule   *schedule.Scheduler
	Auth       *auth.Authenticator
	Store      ledger.Store
}

// NewHandler creates a handler over the given ledgers.
func NewHandler(dir *directory.Directory, att *attendance.Ledger, lv *leave.Ledger, sch *schedule.Scheduler, a *auth.Authenticator, store ledger.Store) *Handler {
	return &Handler{
		Directory:  dir,
		Attendance: att,
		Leave:      lv,
		Schedule:   sch,
		Auth:       a,
		Store:      store,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login verifies credentials against the directory and issues a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, ok := h.Directory.VerifyCredentials(req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.Auth.GenerateToken(emp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Employee: toEmployeeDTO(emp)})
}

// Me returns the current user's record plus clock status.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	emp, ok := h.Directory.Employee(claims.EmployeeID)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	status := ClockStatusDTO{
		EmployeeID: emp.ID,
		ClockedIn:  h.Attendance.IsClockedIn(emp.ID),
	}
	if rec, ok := h.Attendance.TodayRecord(emp.ID); ok {
		dto := toAttendanceDTO(rec)
		status.Today = &dto
	}

	writeJSON(w, http.StatusOK, struct {
		Employee EmployeeDTO    `json:"employee"`
		Clock    ClockStatusDTO `json:"clock"`
	}{toEmployeeDTO(emp), status})
}

// ChangePassword changes the current user's password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	decision, err := h.Directory.ChangePassword(r.Context(), claims.EmployeeID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password", err)
		return
	}
	writeDecision(w, decision)
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, optionally filtered by ?q=.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		writeJSON(w, http.StatusOK, toEmployeeDTOs(h.Directory.Search(q)))
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTOs(h.Directory.Employees()))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.Directory.Employee(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee adds a directory record.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	role := directory.Role(req.Role)
	if role == "" {
		role = directory.RoleEmployee
	}

	emp := directory.Employee{
		ID:          req.ID,
		Name:        req.Name,
		Department:  req.Department,
		Role:        role,
		Email:       req.Email,
		Phone:       req.Phone,
		Designation: req.Designation,
		Username:    req.Username,
		ManagerID:   req.ManagerID,
		JoiningDate: req.JoiningDate,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to hash password", err)
			return
		}
		emp.PasswordHash = string(hash)
	}

	decision, err := h.Directory.Add(r.Context(), emp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	if !decision.OK() {
		writeJSON(w, http.StatusConflict, toDecisionDTO(decision))
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// UpdateEmployee replaces a directory record.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, ok := h.Directory.Employee(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated := existing
	updated.Name = req.Name
	updated.Department = req.Department
	if req.Role != "" {
		updated.Role = directory.Role(req.Role)
	}
	updated.Email = req.Email
	updated.Phone = req.Phone
	updated.Designation = req.Designation
	updated.ManagerID = req.ManagerID
	updated.JoiningDate = req.JoiningDate

	decision, err := h.Directory.Update(r.Context(), id, updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update employee", err)
		return
	}
	if !decision.OK() {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(updated))
}

// DeleteEmployee removes a directory record.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	decision, err := h.Directory.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	writeDecision(w, decision)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ListAttendance returns the caller's records, or all records for managers.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims.Role == directory.RoleManager {
		writeJSON(w, http.StatusOK, toAttendanceDTOs(h.Attendance.Records()))
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTOs(h.Attendance.RecordsFor(claims.EmployeeID)))
}

// ClockStatus returns the caller's clock state.
func (h *Handler) ClockStatus(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	status := ClockStatusDTO{
		EmployeeID: claims.EmployeeID,
		ClockedIn:  h.Attendance.IsClockedIn(claims.EmployeeID),
	}
	if rec, ok := h.Attendance.TodayRecord(claims.EmployeeID); ok {
		dto := toAttendanceDTO(rec)
		status.Today = &dto
	}
	writeJSON(w, http.StatusOK, status)
}

// ClockIn opens today's attendance record for the caller.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	decision, err := h.Attendance.ClockIn(r.Context(), claims.EmployeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clock in", err)
		return
	}
	writeDecision(w, decision)
}

// ClockOut closes today's attendance record for the caller.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	decision, err := h.Attendance.ClockOut(r.Context(), claims.EmployeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clock out", err)
		return
	}
	writeDecision(w, decision)
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListLeaveBalances returns the caller's balances; managers may pass
// ?employee_id= to read someone else's.
func (h *Handler) ListLeaveBalances(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	employeeID := claims.EmployeeID
	if requested := r.URL.Query().Get("employee_id"); requested != "" {
		if claims.Role != directory.RoleManager && requested != claims.EmployeeID {
			writeError(w, http.StatusForbidden, "Cannot read another employee's balances", nil)
			return
		}
		employeeID = requested
	}
	writeJSON(w, http.StatusOK, toLeaveBalanceDTOs(h.Leave.Balances(employeeID)))
}

// ListLeaveRequests returns the caller's requests, or all for managers.
// Ordering is most-recently-submitted-first.
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims.Role == directory.RoleManager {
		writeJSON(w, http.StatusOK, toLeaveRequestDTOs(h.Leave.Requests()))
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(h.Leave.RequestsFor(claims.EmployeeID)))
}

// SubmitLeave submits a leave request for the caller.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := ledger.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := ledger.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	created, decision, err := h.Leave.Submit(r.Context(), claims.EmployeeID, leave.Type(req.LeaveType), start, end, req.Reason)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to submit request", err)
		return
	}
	if !decision.OK() {
		writeJSON(w, http.StatusOK, toDecisionDTO(decision))
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(created))
}

// ApproveLeave approves a pending request and settles the balance.
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	decision, err := h.Leave.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to approve request", err)
		return
	}
	writeDecision(w, decision)
}

// RejectLeave rejects a pending request.
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	decision, err := h.Leave.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reject request", err)
		return
	}
	writeDecision(w, decision)
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns the caller's shifts, or all shifts for managers.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims.Role == directory.RoleManager {
		writeJSON(w, http.StatusOK, toShiftDTOs(h.Schedule.Shifts()))
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(h.Schedule.EmployeeShifts(claims.EmployeeID)))
}

// AssignShift schedules a shift for an employee.
func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	if _, ok := h.Directory.Employee(req.EmployeeID); !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	shift, decision, err := h.Schedule.Assign(r.Context(), req.EmployeeID, date, schedule.ShiftType(req.ShiftType))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign shift", err)
		return
	}
	if !decision.OK() {
		writeJSON(w, http.StatusBadRequest, toDecisionDTO(decision))
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift))
}

// ListSwaps returns the caller's swap requests, or all for managers.
func (h *Handler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims.Role == directory.RoleManager {
		writeJSON(w, http.StatusOK, toSwapRequestDTOs(h.Schedule.SwapRequests()))
		return
	}
	writeJSON(w, http.StatusOK, toSwapRequestDTOs(h.Schedule.SwapRequestsFor(claims.EmployeeID)))
}

// RequestSwap creates a pending swap request for the caller.
func (h *Handler) RequestSwap(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	var req RequestSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	swap, decision, err := h.Schedule.RequestSwap(r.Context(), claims.EmployeeID, date,
		schedule.ShiftType(req.FromShift), schedule.ShiftType(req.ToShift))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to request swap", err)
		return
	}
	if !decision.OK() {
		writeJSON(w, http.StatusBadRequest, toDecisionDTO(decision))
		return
	}
	writeJSON(w, http.StatusCreated, toSwapRequestDTO(swap))
}

// ApproveSwap approves a pending swap and rewrites the matching shifts.
func (h *Handler) ApproveSwap(w http.ResponseWriter, r *http.Request) {
	decision, err := h.Schedule.ApproveSwap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to approve swap", err)
		return
	}
	writeDecision(w, decision)
}

// RejectSwap rejects a pending swap.
func (h *Handler) RejectSwap(w http.ResponseWriter, r *http.Request) {
	decision, err := h.Schedule.RejectSwap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reject swap", err)
		return
	}
	writeDecision(w, decision)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// SeedFixture resets the store and loads the demo fixture. Only this
// endpoint and the seed command ever wipe existing snapshots.
func (h *Handler) SeedFixture(w http.ResponseWriter, r *http.Request) {
	if err := Seed(r.Context(), h.Store, h.Directory, h.Attendance, h.Leave, h.Schedule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed fixture", err)
		return
	}
	log.Printf("fixture seeded")
	writeJSON(w, http.StatusOK, DecisionDTO{Status: string(ledger.Applied)})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

// writeDecision maps a ledger Decision onto an HTTP response: applied and
// no-op results are 200 (the caller inspects the status), declined is 409.
func writeDecision(w http.ResponseWriter, d ledger.Decision) {
	status := http.StatusOK
	if d.Outcome == ledger.Declined {
		status = http.StatusConflict
	}
	writeJSON(w, status, toDecisionDTO(d))
}
