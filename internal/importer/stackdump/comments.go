package stackdump

import (
	"context"
	"fmt"

	"dumploader/internal/domain"
)

// Comments carry no update history in the dump, so created and updated
// both take the creation date. A duplicate id is a hard error.
const insertCommentSQL = `INSERT INTO comments (id, body, author_id, post_id, created, updated)
VALUES ($1, $2, $3, $4, $5, $6)`

// decodeComment turns one Comments.xml row into a Comment. Rows without an
// Id attribute are skipped. PostId is effectively required: a missing or
// malformed value decodes to 0.
func decodeComment(attrs map[string]string) (domain.Record, bool) {
	if _, ok := attrs["Id"]; !ok {
		return nil, false
	}
	return domain.Comment{
		ID:      requiredID(attrs, "Id"),
		PostID:  requiredID(attrs, "PostId"),
		UserID:  attrInt64(attrs, "UserId"),
		Text:    attrString(attrs, "Text"),
		Created: attrTime(attrs, "CreationDate"),
	}, true
}

// flushComments writes the buffered comments in one transaction and clears
// the buffer.
func (w *batchWriter) flushComments(ctx context.Context) error {
	if len(w.comments) == 0 {
		return nil
	}
	tx, err := w.dbh.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("comments: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.Prepare(ctx, "insert_comment", insertCommentSQL); err != nil {
		return fmt.Errorf("comments: prepare: %w", err)
	}
	for _, c := range w.comments {
		if err := tx.Exec(ctx, "insert_comment", c.ID, c.Text, c.UserID, c.PostID, c.Created, c.Created); err != nil {
			return fmt.Errorf("comments: insert id=%d: %w", c.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("comments: commit: %w", err)
	}
	w.noteFlush(domain.EntityComments, len(w.comments))
	w.comments = w.comments[:0]
	return nil
}
