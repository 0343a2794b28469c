package stackdump

import (
	"context"
	"fmt"

	"dumploader/internal/domain"
)

// Tags are inserted unconditionally; a duplicate id is a hard error that
// aborts the batch.
const insertTagSQL = `INSERT INTO tags (id, name, post_id)
VALUES ($1, $2, $3)`

// decodeTag turns one Tags.xml row into a Tag. Rows without an Id
// attribute are skipped.
func decodeTag(attrs map[string]string) (domain.Record, bool) {
	if _, ok := attrs["Id"]; !ok {
		return nil, false
	}
	return domain.Tag{
		ID:            requiredID(attrs, "Id"),
		Name:          attrString(attrs, "TagName"),
		ExcerptPostID: attrInt64(attrs, "ExcerptPostId"),
	}, true
}

// flushTags writes the buffered tags in one transaction and clears the
// buffer.
func (w *batchWriter) flushTags(ctx context.Context) error {
	if len(w.tags) == 0 {
		return nil
	}
	tx, err := w.dbh.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("tags: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.Prepare(ctx, "insert_tag", insertTagSQL); err != nil {
		return fmt.Errorf("tags: prepare: %w", err)
	}
	for _, t := range w.tags {
		if err := tx.Exec(ctx, "insert_tag", t.ID, t.Name, t.ExcerptPostID); err != nil {
			return fmt.Errorf("tags: insert id=%d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tags: commit: %w", err)
	}
	w.noteFlush(domain.EntityTags, len(w.tags))
	w.tags = w.tags[:0]
	return nil
}
