/*
Package directory implements the employee directory: the single read
reference shared by every ledger in the HR console.

The directory exclusively owns the employee collection. Other components
hold no back-references; they look employees up by ID when they need one.
Credential checks live here because credentials are employee attributes,
but the directory is not a security boundary - see the auth package.
*/
package directory

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/warp/hr-console/ledger"
)

// Role determines visibility: employees see their own records, managers
// see everything and perform approvals.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// Employee is a directory record. ID is immutable once created.
type Employee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	Role         Role   `json:"role"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Designation  string `json:"designation,omitempty"`
	Username     string `json:"username,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
	ManagerID    string `json:"manager_id,omitempty"`
	JoiningDate  string `json:"joining_date,omitempty"`
}

// Directory is the in-memory employee collection backed by whole-snapshot
// persistence under ledger.KeyEmployees.
type Directory struct {
	mu        sync.RWMutex
	store     ledger.Store
	employees []Employee
}

// New loads the employee snapshot (if any) and returns the directory.
func New(ctx context.Context, store ledger.Store) (*Directory, error) {
	d := &Directory{store: store}
	if _, err := store.Load(ctx, ledger.KeyEmployees, &d.employees); err != nil {
		return nil, err
	}
	return d, nil
}

// Employees returns a copy of all employee records.
func (d *Directory) Employees() []Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Employee, len(d.employees))
	copy(out, d.employees)
	return out
}

// Employee returns the record with the given ID.
func (d *Directory) Employee(id string) (Employee, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range d.employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// ByUsername returns the record with the given login name.
func (d *Directory) ByUsername(username string) (Employee, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range d.employees {
		if e.Username != "" && e.Username == username {
			return e, true
		}
	}
	return Employee{}, false
}

// Search matches the term against ID, name and department,
// case-insensitively.
func (d *Directory) Search(term string) []Employee {
	t := strings.ToLower(term)

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Employee
	for _, e := range d.employees {
		if strings.Contains(strings.ToLower(e.ID), t) ||
			strings.Contains(strings.ToLower(e.Name), t) ||
			strings.Contains(strings.ToLower(e.Department), t) {
			out = append(out, e)
		}
	}
	return out
}

// Add prepends a new employee. Declined if the ID is empty or taken.
func (d *Directory) Add(ctx context.Context, e Employee) (ledger.Decision, error) {
	if e.ID == "" {
		return ledger.Decline("employee id is required"), nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.employees {
		if existing.ID == e.ID {
			return ledger.Decline("employee id already exists"), nil
		}
	}

	d.employees = append([]Employee{e}, d.employees...)
	return ledger.Apply(), d.persist(ctx)
}

// Update replaces the record with the given ID. The ID itself never changes.
func (d *Directory) Update(ctx context.Context, id string, updated Employee) (ledger.Decision, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.employees {
		if e.ID == id {
			updated.ID = id
			d.employees[i] = updated
			return ledger.Apply(), d.persist(ctx)
		}
	}
	return ledger.Skip("unknown employee"), nil
}

// Remove deletes the record with the given ID.
func (d *Directory) Remove(ctx context.Context, id string) (ledger.Decision, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.employees {
		if e.ID == id {
			d.employees = append(d.employees[:i:i], d.employees[i+1:]...)
			return ledger.Apply(), d.persist(ctx)
		}
	}
	return ledger.Skip("unknown employee"), nil
}

// VerifyCredentials checks username/password against the stored bcrypt hash.
func (d *Directory) VerifyCredentials(username, password string) (Employee, bool) {
	e, ok := d.ByUsername(username)
	if !ok || e.PasswordHash == "" {
		return Employee{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) != nil {
		return Employee{}, false
	}
	return e, true
}

// ChangePassword verifies the current password and stores a hash of the new
// one. Declined (with a caller-facing reason) on any precondition failure.
func (d *Directory) ChangePassword(ctx context.Context, id, current, next string) (ledger.Decision, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var idx = -1
	for i, e := range d.employees {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ledger.Decline("employee not found"), nil
	}

	e := d.employees[idx]
	if e.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(current)) != nil {
		return ledger.Decline("current password is incorrect"), nil
	}
	if len(next) < 6 {
		return ledger.Decline("new password must be at least 6 characters long"), nil
	}
	if current == next {
		return ledger.Decline("new password must be different from current password"), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return ledger.Decision{}, err
	}
	d.employees[idx].PasswordHash = string(hash)
	return ledger.Apply(), d.persist(ctx)
}

// SetEmployees replaces the employee collection. Used by seeding.
func (d *Directory) SetEmployees(ctx context.Context, employees []Employee) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.employees = employees
	return d.persist(ctx)
}

func (d *Directory) persist(ctx context.Context) error {
	return d.store.Save(ctx, ledger.KeyEmployees, d.employees)
}
