package stackdump

import (
	"context"
	"fmt"
	"log"

	"dumploader/internal/db"
	"dumploader/internal/domain"
)

// DefaultBatchSize is the per-entity buffer threshold used when the
// configuration leaves it unset.
const DefaultBatchSize = 500

// batchWriter is the record channel's sole consumer. It keeps one
// accumulation buffer per entity type and flushes a buffer in its own
// transaction when it reaches the threshold; once the channel closes, a
// final drain flushes every buffer in foreign-key order. Because a single
// goroutine owns the writer, no two flushes ever overlap.
type batchWriter struct {
	dbh       db.DB
	threshold int

	users    []domain.User
	tags     []domain.Tag
	posts    []domain.Post
	comments []domain.Comment
	votes    []domain.Vote

	inserted map[domain.Entity]int
	flushes  map[domain.Entity]int
}

func newBatchWriter(dbh db.DB, threshold int) *batchWriter {
	if threshold <= 0 {
		threshold = DefaultBatchSize
	}
	return &batchWriter{
		dbh:       dbh,
		threshold: threshold,
		users:     make([]domain.User, 0, threshold),
		tags:      make([]domain.Tag, 0, threshold),
		posts:     make([]domain.Post, 0, threshold),
		comments:  make([]domain.Comment, 0, threshold),
		votes:     make([]domain.Vote, 0, threshold),
		inserted:  make(map[domain.Entity]int),
		flushes:   make(map[domain.Entity]int),
	}
}

// run drains records until the channel closes, then performs the final
// drain. Any flush error is fatal: the remaining channel contents are
// discarded so producers using a blocking send cannot deadlock, and the
// error is returned to halt the pipeline.
func (w *batchWriter) run(ctx context.Context, records <-chan domain.Record) error {
	for rec := range records {
		if err := w.ingest(ctx, rec); err != nil {
			for range records {
				// unblock producers; nothing more will be written
			}
			return err
		}
	}
	return w.drain(ctx)
}

// ingest appends the record to its entity buffer and flushes that buffer
// synchronously once it reaches the threshold.
func (w *batchWriter) ingest(ctx context.Context, rec domain.Record) error {
	switch r := rec.(type) {
	case domain.User:
		w.users = append(w.users, r)
		if len(w.users) >= w.threshold {
			return w.flushUsers(ctx)
		}
	case domain.Tag:
		w.tags = append(w.tags, r)
		if len(w.tags) >= w.threshold {
			return w.flushTags(ctx)
		}
	case domain.Post:
		w.posts = append(w.posts, r)
		if len(w.posts) >= w.threshold {
			return w.flushPosts(ctx)
		}
	case domain.Comment:
		w.comments = append(w.comments, r)
		if len(w.comments) >= w.threshold {
			return w.flushComments(ctx)
		}
	case domain.Vote:
		w.votes = append(w.votes, r)
		if len(w.votes) >= w.threshold {
			return w.flushVotes(ctx)
		}
	default:
		return fmt.Errorf("writer: unknown record type %T", rec)
	}
	return nil
}

// drain flushes every buffer regardless of fill level, in foreign-key
// order: users and tags before posts (posts_tags resolves tag names),
// posts before comments and votes.
func (w *batchWriter) drain(ctx context.Context) error {
	if err := w.flushUsers(ctx); err != nil {
		return err
	}
	if err := w.flushTags(ctx); err != nil {
		return err
	}
	if err := w.flushPosts(ctx); err != nil {
		return err
	}
	if err := w.flushComments(ctx); err != nil {
		return err
	}
	return w.flushVotes(ctx)
}

// noteFlush records one committed flush for the summary log.
func (w *batchWriter) noteFlush(e domain.Entity, rows int) {
	w.inserted[e] += rows
	w.flushes[e]++
}

// logSummary emits one line per entity that saw at least one insert.
func (w *batchWriter) logSummary() {
	for _, e := range domain.AllEntities {
		if w.flushes[e] == 0 {
			continue
		}
		log.Printf("stackdump: %s: inserted=%d flushes=%d", e, w.inserted[e], w.flushes[e])
	}
}
