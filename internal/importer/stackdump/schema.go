package stackdump

import (
	"context"
	"fmt"

	"dumploader/internal/db"
)

// schemaDDL bootstraps the target schema. Everything is idempotent so the
// importer can run against a prepared database: tables use IF NOT EXISTS
// and the enum types swallow duplicate_object (Postgres has no CREATE TYPE
// IF NOT EXISTS).
//
// The votes unique index backs the insert's ON CONFLICT DO NOTHING; NULLS
// NOT DISTINCT keeps anonymized votes (author_id IS NULL) idempotent too.
var schemaDDL = []string{
	`DO $$ BEGIN
		CREATE TYPE post_type AS ENUM ('QUESTION', 'ANSWER');
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`DO $$ BEGIN
		CREATE TYPE vote_type AS ENUM ('POSITIVE', 'NEGATIVE');
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		user_type TEXT NOT NULL,
		external_id BIGINT,
		name TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id BIGINT PRIMARY KEY,
		name TEXT,
		post_id BIGINT
	)`,

	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT PRIMARY KEY,
		title TEXT,
		body TEXT,
		post_type post_type NOT NULL,
		author_id BIGINT,
		parent_id BIGINT,
		answer_id BIGINT,
		created TIMESTAMP,
		updated TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS posts_tags (
		post_id BIGINT NOT NULL,
		tag_id BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id BIGINT PRIMARY KEY,
		body TEXT,
		author_id BIGINT,
		post_id BIGINT,
		created TIMESTAMP,
		updated TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS votes (
		author_id BIGINT,
		post_id BIGINT,
		created TIMESTAMP,
		type vote_type NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS votes_identity_idx
		ON votes (post_id, author_id, created, type)
		NULLS NOT DISTINCT`,
}

// ensureSchema issues the bootstrap DDL statement by statement.
func ensureSchema(ctx context.Context, dbh db.DB) error {
	for _, ddl := range schemaDDL {
		if err := dbh.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("stackdump: ensure schema: %w", err)
		}
	}
	return nil
}
