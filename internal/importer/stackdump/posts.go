package stackdump

import (
	"context"
	"fmt"

	"dumploader/internal/domain"
)

const insertPostSQL = `INSERT INTO posts
	(id, title, body, post_type, author_id, parent_id, answer_id, created, updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// insertPostTagSQL links a post to a tag by name, but only when the tag
// row already exists: the CTE resolves the name, and the INSERT selects
// from it guarded by EXISTS. An unknown tag name inserts nothing and
// raises no error.
const insertPostTagSQL = `WITH tag AS (
	SELECT id FROM tags WHERE name = $2
)
INSERT INTO posts_tags (post_id, tag_id)
SELECT $1, id FROM tag
WHERE EXISTS (SELECT 1 FROM tag)`

// decodePost turns one Posts.xml row into a Post. Rows without an Id
// attribute are skipped, as is every row whose PostTypeId is not 1
// (question) or 2 (answer); wiki pages and the rest of the dump's post
// kinds are not imported.
func decodePost(attrs map[string]string) (domain.Record, bool) {
	if _, ok := attrs["Id"]; !ok {
		return nil, false
	}
	postType := attrInt(attrs, "PostTypeId")
	if postType != 1 && postType != 2 {
		return nil, false
	}
	return domain.Post{
		ID:         requiredID(attrs, "Id"),
		PostTypeID: postType,
		OwnerID:    attrInt64(attrs, "OwnerUserId"),
		Title:      attrString(attrs, "Title"),
		Body:       attrString(attrs, "Body"),
		TagList:    attrString(attrs, "Tags"),
		ParentID:   attrInt64(attrs, "ParentId"),
		AnswerID:   attrInt64(attrs, "AcceptedAnswerId"),
		Created:    attrTime(attrs, "CreationDate"),
		Updated:    attrTime(attrs, "LastActivityDate"),
	}, true
}

// flushPosts writes the buffered posts in one transaction and clears the
// buffer. After each post row, its tag list is resolved into posts_tags
// association rows; names with no matching tags row are skipped silently.
func (w *batchWriter) flushPosts(ctx context.Context) error {
	if len(w.posts) == 0 {
		return nil
	}
	tx, err := w.dbh.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("posts: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.Prepare(ctx, "insert_post", insertPostSQL); err != nil {
		return fmt.Errorf("posts: prepare: %w", err)
	}
	if err := tx.Prepare(ctx, "insert_post_tag", insertPostTagSQL); err != nil {
		return fmt.Errorf("posts: prepare association: %w", err)
	}
	for _, p := range w.posts {
		postType := string(domain.PostTypeFromCode(p.PostTypeID))
		err := tx.Exec(ctx, "insert_post",
			p.ID, p.Title, p.Body, postType,
			p.OwnerID, p.ParentID, p.AnswerID, p.Created, p.Updated,
		)
		if err != nil {
			return fmt.Errorf("posts: insert id=%d: %w", p.ID, err)
		}
		if p.TagList == nil {
			continue
		}
		for _, name := range domain.SplitTags(*p.TagList) {
			if err := tx.Exec(ctx, "insert_post_tag", p.ID, name); err != nil {
				return fmt.Errorf("posts: tag association id=%d tag=%q: %w", p.ID, name, err)
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("posts: commit: %w", err)
	}
	w.noteFlush(domain.EntityPosts, len(w.posts))
	w.posts = w.posts[:0]
	return nil
}
