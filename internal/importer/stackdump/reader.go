// Package stackdump imports a Stack Exchange style data dump, five XML
// files of self-closing <row> elements (Users, Tags, Posts, Comments,
// Votes), into a normalized Postgres schema.
//
// Shape of the pipeline: one streaming reader per dump file decodes rows
// into typed records and forwards them to a single bounded channel; one
// batching writer drains the channel, accumulating a per-entity buffer and
// flushing each buffer in its own transaction when it fills. The channel's
// full-capacity behavior is a policy choice (drop vs. block), see Pipeline.
package stackdump

import (
	"encoding/xml"
	"io"
	"strings"
)

// rowTag is the element name carrying one source record; all of its fields
// are attributes.
const rowTag = "row"

// readRows streams r forward-only and invokes fn once per <row> element
// with its attribute map. All other elements, character data, and
// directives are ignored. The decoder runs non-strict, so entity glitches
// in attribute values degrade to whatever text survives rather than
// failing the file; truncation is treated as end-of-stream.
func readRows(r io.Reader, fn func(attrs map[string]string)) error {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF || isTruncErr(err) {
				return nil
			}
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != rowTag {
			continue
		}
		attrs := make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[a.Name.Local] = a.Value
		}
		fn(attrs)
	}
}

// isTruncErr returns true for typical encoding/xml truncation messages.
func isTruncErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "unexpected EOF") || strings.Contains(s, "XML syntax error")
}
