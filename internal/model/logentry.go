package model

import (
	"strings"
	"time"

	"logviewer-backend/internal/util"
)

type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

var Levels = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}

// ParseLevel matches case-insensitively against the fixed level set.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if strings.EqualFold(string(l), s) {
			return l, true
		}
	}
	return "", false
}

// LogEntry is one stored record. Timestamp keeps the accepted ISO-8601 text as is;
// entries are never rewritten once appended.
type LogEntry struct {
	Level      Level    `json:"level" validate:"required,loglevel"`
	Message    string   `json:"message" validate:"required"`
	ResourceID string   `json:"resourceId" validate:"required"`
	Timestamp  string   `json:"timestamp" validate:"omitempty,iso8601"`
	TraceID    string   `json:"traceId" validate:"required"`
	SpanID     string   `json:"spanId" validate:"required"`
	Commit     string   `json:"commit" validate:"required"`
	Metadata   Metadata `json:"metadata"`
}

// Normalize fills a missing timestamp with now and replaces missing metadata with {}.
func (e LogEntry) Normalize(now time.Time) LogEntry {
	if strings.TrimSpace(e.Timestamp) == "" {
		e.Timestamp = util.FormatISO(now)
	}
	if e.Metadata == nil {
		e.Metadata = Metadata{}
	}
	return e
}

// ParsedTimestamp parses the stored timestamp leniently. ok is false when it cannot be read.
func (e LogEntry) ParsedTimestamp() (t time.Time, ok bool) {
	if strings.TrimSpace(e.Timestamp) == "" {
		return time.Time{}, false
	}
	t, err := util.ParseTimeLenient(e.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
