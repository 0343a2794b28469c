package stackdump

import (
	"testing"

	"dumploader/internal/domain"
)

// Test_decodeUser covers the identity gate, the parse-to-zero fallback,
// and optional-field handling.
func Test_decodeUser(t *testing.T) {
	t.Parallel()

	t.Run("missing_id_skips", func(t *testing.T) {
		if _, ok := decodeUser(map[string]string{"DisplayName": "bob"}); ok {
			t.Fatalf("row without Id must be skipped")
		}
	})

	t.Run("full_row", func(t *testing.T) {
		rec, ok := decodeUser(map[string]string{"Id": "42", "DisplayName": "bob"})
		if !ok {
			t.Fatalf("decode failed")
		}
		u := rec.(domain.User)
		if u.ID != 42 || u.Name == nil || *u.Name != "bob" {
			t.Fatalf("u = %+v", u)
		}
	})

	t.Run("unparsable_id_becomes_zero", func(t *testing.T) {
		rec, ok := decodeUser(map[string]string{"Id": "forty-two"})
		if !ok {
			t.Fatalf("row with malformed Id is kept, not skipped")
		}
		if rec.(domain.User).ID != 0 {
			t.Fatalf("ID = %d, want sentinel 0", rec.(domain.User).ID)
		}
	})

	t.Run("absent_name_is_nil", func(t *testing.T) {
		rec, _ := decodeUser(map[string]string{"Id": "7"})
		if rec.(domain.User).Name != nil {
			t.Fatalf("Name should be nil when absent")
		}
	})
}

// Test_decodeTag checks optional excerpt-post parsing degrades to nil.
func Test_decodeTag(t *testing.T) {
	t.Parallel()

	rec, ok := decodeTag(map[string]string{"Id": "5", "TagName": "go", "ExcerptPostId": "oops"})
	if !ok {
		t.Fatalf("decode failed")
	}
	tag := rec.(domain.Tag)
	if tag.ID != 5 || tag.Name == nil || *tag.Name != "go" {
		t.Fatalf("tag = %+v", tag)
	}
	if tag.ExcerptPostID != nil {
		t.Fatalf("malformed optional int must decode to nil")
	}

	if _, ok := decodeTag(map[string]string{"TagName": "go"}); ok {
		t.Fatalf("row without Id must be skipped")
	}
}

// Test_decodePost_TypeFilter: only type codes 1 (question) and 2 (answer)
// produce a record.
func Test_decodePost_TypeFilter(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"1", "2"} {
		if _, ok := decodePost(map[string]string{"Id": "1", "PostTypeId": code}); !ok {
			t.Fatalf("PostTypeId=%s must decode", code)
		}
	}
	for _, code := range []string{"0", "3", "4", "99", "", "junk"} {
		if _, ok := decodePost(map[string]string{"Id": "1", "PostTypeId": code}); ok {
			t.Fatalf("PostTypeId=%q must be discarded", code)
		}
	}
	if _, ok := decodePost(map[string]string{"PostTypeId": "1"}); ok {
		t.Fatalf("row without Id must be skipped")
	}
}

// Test_decodePost_Fields exercises a representative full row.
func Test_decodePost_Fields(t *testing.T) {
	t.Parallel()

	rec, ok := decodePost(map[string]string{
		"Id":               "10",
		"PostTypeId":       "1",
		"OwnerUserId":      "3",
		"Title":            "How do I stream XML?",
		"Tags":             "|rust|go|",
		"CreationDate":     "2008-07-31T21:42:52.667",
		"LastActivityDate": "not-a-date",
		"AcceptedAnswerId": "11",
	})
	if !ok {
		t.Fatalf("decode failed")
	}
	p := rec.(domain.Post)
	if p.ID != 10 || p.PostTypeID != 1 {
		t.Fatalf("identity: %+v", p)
	}
	if p.OwnerID == nil || *p.OwnerID != 3 || p.AnswerID == nil || *p.AnswerID != 11 {
		t.Fatalf("numeric optionals: %+v", p)
	}
	if p.TagList == nil || *p.TagList != "|rust|go|" {
		t.Fatalf("tag list must stay raw: %+v", p.TagList)
	}
	if p.Created == nil {
		t.Fatalf("creation date should parse")
	}
	if p.Updated != nil {
		t.Fatalf("malformed timestamp must decode to nil")
	}
	if p.Body != nil || p.ParentID != nil {
		t.Fatalf("absent optionals must be nil: %+v", p)
	}
}

// Test_decodeComment: identity gate plus the always-present PostID rule.
func Test_decodeComment(t *testing.T) {
	t.Parallel()

	if _, ok := decodeComment(map[string]string{"PostId": "9", "Text": "hi"}); ok {
		t.Fatalf("row without Id must be skipped")
	}

	rec, ok := decodeComment(map[string]string{"Id": "4", "Text": "hi"})
	if !ok {
		t.Fatalf("decode failed")
	}
	c := rec.(domain.Comment)
	if c.PostID != 0 {
		t.Fatalf("absent PostId must decode to 0, got %d", c.PostID)
	}

	rec, _ = decodeComment(map[string]string{"Id": "4", "PostId": "9", "UserId": "2", "CreationDate": "2010-01-02T03:04:05"})
	c = rec.(domain.Comment)
	if c.PostID != 9 || c.UserID == nil || *c.UserID != 2 || c.Created == nil {
		t.Fatalf("c = %+v", c)
	}
}

// Test_decodeVote: the Id attribute gates the row but its value is
// discarded.
func Test_decodeVote(t *testing.T) {
	t.Parallel()

	if _, ok := decodeVote(map[string]string{"PostId": "9", "VoteTypeId": "2"}); ok {
		t.Fatalf("row without Id must be dropped before decoding")
	}

	rec, ok := decodeVote(map[string]string{"Id": "junk-is-fine", "PostId": "9", "VoteTypeId": "3", "UserId": "8"})
	if !ok {
		t.Fatalf("decode failed")
	}
	v := rec.(domain.Vote)
	if v.PostID != 9 || v.VoteTypeID != 3 || v.UserID == nil || *v.UserID != 8 {
		t.Fatalf("v = %+v", v)
	}
}
