package domain

import (
	"strings"
	"time"
)

// TimeLayout is the dump's timestamp shape (2008-07-31T21:42:52). Fractional
// seconds appear on some rows; time.Parse accepts them even though the
// layout omits the field.
const TimeLayout = "2006-01-02T15:04:05"

// ParseTimestamp parses a dump timestamp. A value that does not match the
// layout yields nil rather than an error; malformed dates must never fail
// the surrounding decode.
func ParseTimestamp(s string) *time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// SplitTags decodes a pipe-delimited tag list ("|a|b|" -> ["a","b"]).
// Leading/trailing separators are trimmed, empty segments dropped, and
// source order preserved. "||" and "" both yield an empty slice.
func SplitTags(raw string) []string {
	trimmed := strings.Trim(raw, "|")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "|")
	names := parts[:0]
	for _, p := range parts {
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// PostType is the posts.post_type enum label in the target store.
type PostType string

const (
	PostTypeQuestion PostType = "QUESTION"
	PostTypeAnswer   PostType = "ANSWER"
)

// PostTypeFromCode maps the dump's PostTypeId to a store label: 1 is
// QUESTION, 2 is ANSWER. Any other code falls back to ANSWER; the decoder
// filters unknown codes out, so in practice the fallback is unreachable,
// but the mapping stays total.
func PostTypeFromCode(code int) PostType {
	if code == 1 {
		return PostTypeQuestion
	}
	return PostTypeAnswer
}

// VoteType is the votes.type enum label in the target store.
type VoteType string

const (
	VotePositive VoteType = "POSITIVE"
	VoteNegative VoteType = "NEGATIVE"
)

// VoteTypeFromCode maps the dump's VoteTypeId to a store label: 2 is
// POSITIVE (upvote), 3 is NEGATIVE (downvote). Every other code defaults to
// POSITIVE. Lossy, but intentional: unmapped vote kinds (favorites, bounty
// events, ...) are recorded rather than rejected.
func VoteTypeFromCode(code int) VoteType {
	if code == 3 {
		return VoteNegative
	}
	return VotePositive
}
