package stackdump

import (
	"strconv"
	"time"

	"dumploader/internal/domain"
)

// Attribute accessors shared by the entity decoders. Optional fields map
// absence and malformed values to nil; required identities use requiredID,
// which degrades an unparsable value to 0 instead of skipping the row.

// attrString returns the attribute value, or nil when absent.
func attrString(attrs map[string]string, key string) *string {
	v, ok := attrs[key]
	if !ok {
		return nil
	}
	return &v
}

// attrInt64 parses an optional integer attribute; absence or a parse
// failure yields nil.
func attrInt64(attrs map[string]string, key string) *int64 {
	v, ok := attrs[key]
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// attrInt is attrInt64 for int-sized codes, with a 0 fallback on absence
// or parse failure.
func attrInt(attrs map[string]string, key string) int {
	n, err := strconv.Atoi(attrs[key])
	if err != nil {
		return 0
	}
	return n
}

// attrTime parses an optional dump timestamp; absence or a layout mismatch
// yields nil.
func attrTime(attrs map[string]string, key string) *time.Time {
	v, ok := attrs[key]
	if !ok {
		return nil
	}
	return domain.ParseTimestamp(v)
}

// requiredID parses a required identity attribute that is already known to
// be present. An unparsable value degrades to 0 rather than skipping the
// row, so a mangled id still produces a record.
func requiredID(attrs map[string]string, key string) int64 {
	n, err := strconv.ParseInt(attrs[key], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
