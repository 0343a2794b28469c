package db

import "context"

// DB is a connection capable of starting transactions and executing DDL/DML.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) error
	BeginTx(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// Tx (transaction) supports prepared statements, execution, and lifecycle.
// Exec accepts either raw SQL or the name of a statement previously
// registered via Prepare on the same connection.
type Tx interface {
	Prepare(ctx context.Context, name, sql string) error
	Exec(ctx context.Context, sql string, args ...any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBFactory can mint a new DB connection per task.
type DBFactory func(ctx context.Context) (DB, error)
