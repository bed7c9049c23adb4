package sqldb

import (
	"context"
	"database/sql"
)

// Queryable is what inspection and plan execution run against. *sql.DB lets catalog rows be fetched concurrently;
// *sql.Conn pins every statement to one session, which ExecuteStatements relies on for its session timeouts.
type Queryable interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}
