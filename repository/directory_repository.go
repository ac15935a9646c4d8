package repository

import (
	"database/sql"
	"fmt"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// DirectoryRepository resolves identities the engine consumes but does not
// own: handler accounts for login and assignee resolution, next-tier lookups
// for escalation targets, and display names for polymorphic subject refs.
type DirectoryRepository struct {
	db execer
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// GetAccountByEmail retrieves an active handler account for login.
func (r *DirectoryRepository) GetAccountByEmail(email string) (*models.HandlerAccount, error) {
	query := `
		SELECT account_id, employee_id, full_name, email, password_hash, role,
			tier, department_id, is_active, created_at
		FROM handler_accounts
		WHERE email = ? AND is_active = TRUE
	`
	var a models.HandlerAccount
	err := r.db.QueryRow(query, email).Scan(
		&a.AccountID, &a.EmployeeID, &a.FullName, &a.Email, &a.PasswordHash,
		&a.Role, &a.Tier, &a.DepartmentID, &a.IsActive, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

// GetAccountByEmployeeID retrieves an active handler account by employee id.
func (r *DirectoryRepository) GetAccountByEmployeeID(employeeID int64) (*models.HandlerAccount, error) {
	query := `
		SELECT account_id, employee_id, full_name, email, password_hash, role,
			tier, department_id, is_active, created_at
		FROM handler_accounts
		WHERE employee_id = ? AND is_active = TRUE
	`
	var a models.HandlerAccount
	err := r.db.QueryRow(query, employeeID).Scan(
		&a.AccountID, &a.EmployeeID, &a.FullName, &a.Email, &a.PasswordHash,
		&a.Role, &a.Tier, &a.DepartmentID, &a.IsActive, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

// FindHandlersByTier returns the employee ids of active handlers at the
// given escalation tier, optionally scoped to a department. This is the
// next-tier lookup the escalation sweep uses.
func (r *DirectoryRepository) FindHandlersByTier(tier int, departmentID *int64) ([]int64, error) {
	query := `
		SELECT employee_id FROM handler_accounts
		WHERE tier = ? AND role IN ('handler', 'admin') AND is_active = TRUE
	`
	args := []any{tier}
	if departmentID != nil {
		query += ` AND (department_id = ? OR department_id IS NULL)`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY employee_id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query handlers by tier: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan handler id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating handlers: %w", err)
	}
	return ids, nil
}

// SubjectResolver returns the per-kind display-name lookup table consumed by
// the lifecycle when persisting parties. Kinds without a backing table
// (management, policy, workplace, other) resolve to the client-supplied name
// and are absent from the map.
func (r *DirectoryRepository) SubjectResolver() map[models.SubjectKind]func(id int64) (string, error) {
	return map[models.SubjectKind]func(id int64) (string, error){
		models.SubjectEmployee: func(id int64) (string, error) {
			return r.lookupName(`SELECT full_name FROM handler_accounts WHERE employee_id = ?`, id)
		},
		models.SubjectDepartment: func(id int64) (string, error) {
			return r.lookupName(`SELECT name FROM departments WHERE department_id = ?`, id)
		},
		models.SubjectBranch: func(id int64) (string, error) {
			return r.lookupName(`SELECT name FROM branches WHERE branch_id = ?`, id)
		},
	}
}

func (r *DirectoryRepository) lookupName(query string, id int64) (string, error) {
	var name string
	err := r.db.QueryRow(query, id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve subject name: %w", err)
	}
	return name, nil
}
