package stackdump

import (
	"context"
	"fmt"

	"dumploader/internal/domain"
)

// Votes have no persisted identity; idempotent re-import relies on the
// table's unique constraint and ON CONFLICT DO NOTHING.
const insertVoteSQL = `INSERT INTO votes (author_id, post_id, created, type)
VALUES ($1, $2, $3, $4)
ON CONFLICT DO NOTHING`

// decodeVote turns one Votes.xml row into a Vote. The source Id attribute
// must be present for the row to count, but its value is discarded. PostId
// decodes like an identity: missing or malformed values become 0.
func decodeVote(attrs map[string]string) (domain.Record, bool) {
	if _, ok := attrs["Id"]; !ok {
		return nil, false
	}
	return domain.Vote{
		PostID:     requiredID(attrs, "PostId"),
		VoteTypeID: attrInt(attrs, "VoteTypeId"),
		UserID:     attrInt64(attrs, "UserId"),
		Created:    attrTime(attrs, "CreationDate"),
	}, true
}

// flushVotes writes the buffered votes in one transaction and clears the
// buffer.
func (w *batchWriter) flushVotes(ctx context.Context) error {
	if len(w.votes) == 0 {
		return nil
	}
	tx, err := w.dbh.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("votes: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.Prepare(ctx, "insert_vote", insertVoteSQL); err != nil {
		return fmt.Errorf("votes: prepare: %w", err)
	}
	for _, v := range w.votes {
		voteType := string(domain.VoteTypeFromCode(v.VoteTypeID))
		if err := tx.Exec(ctx, "insert_vote", v.UserID, v.PostID, v.Created, voteType); err != nil {
			return fmt.Errorf("votes: insert post_id=%d: %w", v.PostID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("votes: commit: %w", err)
	}
	w.noteFlush(domain.EntityVotes, len(w.votes))
	w.votes = w.votes[:0]
	return nil
}
