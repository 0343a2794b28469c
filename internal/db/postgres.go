// Package db provides the Postgres adapter behind the standardized DB and
// Tx interfaces. It wraps pgx.Conn/pgx.Tx while remaining testable via
// lightweight seams.
//
// Design goals:
//   - Allow mocking via the pgConnLike interface (for hermetic unit tests).
//   - Keep behavior minimal and predictable—no implicit retries.
//   - Surface errors directly; avoid wrapping for clarity.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//
// ===========================
//  Interface seam for testing
// ===========================
//
// pgConnLike defines the minimal subset of methods used from *pgx.Conn.
// This seam allows injecting a test double that mimics *pgx.Conn behavior,
// enabling hermetic (non-networked) testing of the adapter.
//

type pgConnLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

//
// ===============
//  Core pgDB type
// ===============
//
// pgDB is the concrete Postgres adapter implementing the DB interface.
// It wraps Exec, BeginTx, and Close around pgx.Conn (via pgConnLike),
// making it both production-usable and trivially testable with a fake
// connection.
//

type pgDB struct{ conn pgConnLike }

// NewPgDB connects to Postgres using pgx.Connect and wraps the connection
// in a pgDB. Callers are responsible for closing it via Close().
func NewPgDB(ctx context.Context, dsn string) (DB, error) {
	c, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &pgDB{conn: c}, nil
}

// Exec delegates to pgx.Conn.Exec, executing the provided SQL statement
// with the given arguments. It returns only the error for simplicity.
func (p *pgDB) Exec(ctx context.Context, q string, args ...any) error {
	_, err := p.conn.Exec(ctx, q, args...)
	return err
}

// BeginTx starts a transaction by calling pgx.Conn.Begin.
// It returns a pgTx wrapper that satisfies the Tx interface.
func (p *pgDB) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

// Close closes the underlying connection.
func (p *pgDB) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}

//
// =====================
//  Transaction wrapper
// =====================
//
// pgTx wraps pgx.Tx to implement our Tx interface. It provides uniform
// methods for Prepare, Exec, Commit, and Rollback.
//

type pgTx struct {
	tx pgx.Tx
}

// Prepare registers a named statement on the transaction's connection.
// pgx's Prepare is idempotent for the same (name, sql) pair, so re-preparing
// across successive flush transactions on one connection is safe.
func (t *pgTx) Prepare(ctx context.Context, name, sql string) error {
	_, err := t.tx.Prepare(ctx, name, sql)
	return err
}

// Exec executes a SQL statement (or a prepared statement name) within the
// current transaction. It discards the returned CommandTag, returning only
// error.
func (t *pgTx) Exec(ctx context.Context, q string, args ...any) error {
	_, err := t.tx.Exec(ctx, q, args...)
	return err
}

// Commit commits the active transaction.
func (t *pgTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback aborts the active transaction. Calling it after Commit is a
// harmless no-op at the call sites (the error is discarded).
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

//
// =======================
//  Test-only constructors
// =======================
//
// These helpers allow injection of fakes and test doubles for hermetic tests.
//

// newPgDBFromConn constructs a pgDB from a pgConnLike fake.
// Used exclusively in unit tests.
func newPgDBFromConn(c pgConnLike) *pgDB { return &pgDB{conn: c} }

// newPgTxForTest wraps a pgx.Tx fake into a pgTx for testing.
func newPgTxForTest(t pgx.Tx) *pgTx { return &pgTx{tx: t} }
