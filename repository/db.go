package repository

import "database/sql"

// execer is the subset of *sql.DB / *sql.Tx the repositories use. Holding it
// instead of *sql.DB lets a repository be rebound to a transaction with
// WithTx so that a reconciled parent save commits or rolls back as one unit.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var (
	_ execer = (*sql.DB)(nil)
	_ execer = (*sql.Tx)(nil)
)
