package stackdump

import (
	"strings"
	"testing"
)

// Test_readRows_BasicRows verifies that self-closing and explicit row
// elements both produce attribute maps, and that non-row elements are
// ignored.
func Test_readRows_BasicRows(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="utf-8"?>
<users>
  <row Id="1" DisplayName="alice" />
  <row Id="2"></row>
  <meta Generated="2026-01-01" />
</users>`

	var rows []map[string]string
	if err := readRows(strings.NewReader(doc), func(attrs map[string]string) {
		rows = append(rows, attrs)
	}); err != nil {
		t.Fatalf("readRows err: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["Id"] != "1" || rows[0]["DisplayName"] != "alice" {
		t.Fatalf("row 0 attrs = %v", rows[0])
	}
	if rows[1]["Id"] != "2" {
		t.Fatalf("row 1 attrs = %v", rows[1])
	}
	if _, ok := rows[1]["DisplayName"]; ok {
		t.Fatalf("absent attribute should stay absent, got %v", rows[1])
	}
}

// Test_readRows_UnescapesAttributes ensures entity references in attribute
// values come back decoded.
func Test_readRows_UnescapesAttributes(t *testing.T) {
	t.Parallel()

	doc := `<posts><row Id="1" Title="a &amp; b &lt;c&gt;" Body="&quot;hi&quot;" /></posts>`

	var got map[string]string
	if err := readRows(strings.NewReader(doc), func(attrs map[string]string) { got = attrs }); err != nil {
		t.Fatalf("readRows err: %v", err)
	}
	if got["Title"] != "a & b <c>" {
		t.Fatalf("Title = %q", got["Title"])
	}
	if got["Body"] != `"hi"` {
		t.Fatalf("Body = %q", got["Body"])
	}
}

// Test_readRows_TruncatedInput checks truncation tolerance: only fully
// tokenized rows are delivered and the cut-off tail is treated as EOF.
func Test_readRows_TruncatedInput(t *testing.T) {
	t.Parallel()

	doc := `<votes><row Id="1" VoteTypeId="2" /><row Id="2" VoteTy`

	var n int
	if err := readRows(strings.NewReader(doc), func(map[string]string) { n++ }); err != nil {
		t.Fatalf("truncated input should not error, got %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want 1 (complete rows only)", n)
	}
}

// Test_readRows_EmptyInput: no rows, no error.
func Test_readRows_EmptyInput(t *testing.T) {
	t.Parallel()

	var n int
	if err := readRows(strings.NewReader(""), func(map[string]string) { n++ }); err != nil {
		t.Fatalf("empty input err: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}
}
