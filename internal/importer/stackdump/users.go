package stackdump

import (
	"context"
	"fmt"

	"dumploader/internal/domain"
)

// Users carry an upsert-like contract: the dump may be re-imported and a
// duplicate id is silently ignored, so the insert carries ON CONFLICT DO
// NOTHING. user_type is fixed to EXTERNAL and the dump id doubles as the
// external id.
const insertUserSQL = `INSERT INTO users (id, user_type, external_id, name)
VALUES ($1, 'EXTERNAL', $1, $2)
ON CONFLICT (id) DO NOTHING`

// decodeUser turns one Users.xml row into a User. Rows without an Id
// attribute are skipped.
func decodeUser(attrs map[string]string) (domain.Record, bool) {
	if _, ok := attrs["Id"]; !ok {
		return nil, false
	}
	return domain.User{
		ID:   requiredID(attrs, "Id"),
		Name: attrString(attrs, "DisplayName"),
	}, true
}

// flushUsers writes the buffered users in one transaction and clears the
// buffer. A failure aborts the transaction and is fatal to the pipeline.
func (w *batchWriter) flushUsers(ctx context.Context) error {
	if len(w.users) == 0 {
		return nil
	}
	tx, err := w.dbh.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("users: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.Prepare(ctx, "insert_user", insertUserSQL); err != nil {
		return fmt.Errorf("users: prepare: %w", err)
	}
	for _, u := range w.users {
		if err := tx.Exec(ctx, "insert_user", u.ID, u.Name); err != nil {
			return fmt.Errorf("users: insert id=%d: %w", u.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("users: commit: %w", err)
	}
	w.noteFlush(domain.EntityUsers, len(w.users))
	w.users = w.users[:0]
	return nil
}
