package models

import (
	"database/sql"
	"time"
)

// HandlerRole gates which lifecycle operations an account may invoke.
type HandlerRole string

const (
	RoleEmployee HandlerRole = "employee"
	RoleHandler  HandlerRole = "handler"
	RoleAdmin    HandlerRole = "admin"
)

// HandlerAccount is the minimal identity record behind the capability gate:
// enough to log in, resolve the current assignee of a complaint and look up
// the next escalation tier. Full employee administration lives elsewhere.
type HandlerAccount struct {
	AccountID    int64         `db:"account_id" json:"account_id"`
	EmployeeID   int64         `db:"employee_id" json:"employee_id"`
	FullName     string        `db:"full_name" json:"full_name"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         HandlerRole   `db:"role" json:"role"`
	Tier         int           `db:"tier" json:"tier"` // escalation tier, 1 = first line
	DepartmentID sql.NullInt64 `db:"department_id" json:"department_id"`
	IsActive     bool          `db:"is_active" json:"is_active"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}
