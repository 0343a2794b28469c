package stackdump

import (
	"context"
	"sync"

	"dumploader/internal/db"
)

//
// ==============================
//  FAKES (test doubles for db)
// ==============================
//
// Minimal fakes implementing the db.DB/db.Tx seams. Goals:
//  - Hermetic, fully deterministic tests (no network, no driver).
//  - Capture prepared statements, exec calls, and lifecycle events
//    so tests can assert on flush behavior and ordering.
//  - Allow injecting errors at each stage (begin, prepare, exec, commit).
//

// execCall records one Exec invocation: the SQL (or statement name) and
// its arguments.
type execCall struct {
	sql  string
	args []any
}

// fakeTx implements db.Tx and records everything it sees.
type fakeTx struct {
	prepared   map[string]string // name -> sql
	execs      []execCall
	committed  bool
	rolledBack bool

	prepareErr error
	execErr    error // returned by every Exec when set
	commitErr  error
}

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) error {
	if t.prepareErr != nil {
		return t.prepareErr
	}
	if t.prepared == nil {
		t.prepared = map[string]string{}
	}
	t.prepared[name] = sql
	return nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) error {
	if t.execErr != nil {
		return t.execErr
	}
	t.execs = append(t.execs, execCall{sql: sql, args: args})
	return nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeDB implements db.DB. Each BeginTx mints a fresh fakeTx and keeps it
// for later inspection; Exec calls (DDL) are recorded separately. The
// mutex keeps the fake safe when Import's goroutines share it.
type fakeDB struct {
	mu     sync.Mutex
	ddl    []execCall
	txs    []*fakeTx
	closed bool

	beginErr error
	nextTx   func() *fakeTx // optional per-tx customization
}

func (d *fakeDB) Exec(ctx context.Context, sql string, args ...any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ddl = append(d.ddl, execCall{sql: sql, args: args})
	return nil
}

func (d *fakeDB) BeginTx(ctx context.Context) (db.Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	tx := &fakeTx{}
	if d.nextTx != nil {
		tx = d.nextTx()
	}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDB) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// committedTxs returns only the transactions that reached Commit, in order.
func (d *fakeDB) committedTxs() []*fakeTx {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*fakeTx
	for _, tx := range d.txs {
		if tx.committed {
			out = append(out, tx)
		}
	}
	return out
}
