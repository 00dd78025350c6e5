package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNotAnEntry = errors.New("stored element is not a JSON object")

// DecodeStoredEntry reads one element of the stored collection. Entries written by this service
// decode directly. Older or hand-edited entries may carry numbers, booleans or nulls where text is
// expected; those scalars are kept in their JSON text form (a numeric timestamp stays epoch
// milliseconds) instead of failing the whole collection. Only a non-object element is an error.
func DecodeStoredEntry(raw json.RawMessage) (LogEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return LogEntry{}, errNotAnEntry
	}

	var entry LogEntry
	if err := json.Unmarshal(trimmed, &entry); err == nil {
		return entry, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return LogEntry{}, errNotAnEntry
	}
	entry = LogEntry{
		Level:      Level(scalarText(fields["level"])),
		Message:    scalarText(fields["message"]),
		ResourceID: scalarText(fields["resourceId"]),
		Timestamp:  scalarText(fields["timestamp"]),
		TraceID:    scalarText(fields["traceId"]),
		SpanID:     scalarText(fields["spanId"]),
		Commit:     scalarText(fields["commit"]),
		Metadata:   Metadata{},
	}
	if md, ok := fields["metadata"]; ok {
		_ = entry.Metadata.UnmarshalJSON(md)
	}
	return entry, nil
}

// scalarText returns strings unquoted and numbers or booleans as written. Null, objects and
// arrays have no text form and yield "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(raw)
	}
}
