package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISOLayout is UTC with millisecond precision, the shape clients send and stored documents
// already contain.
const ISOLayout = "2006-01-02T15:04:05.000Z"

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO8601 accepts the ISO-8601 forms clients send. Values without a zone are read as UTC.
func ParseISO8601(timeStr string) (time.Time, error) {
	timeStr = strings.TrimSpace(timeStr)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 time: %q", timeStr)
}

// ParseTimeFlexible accepts ISO-8601 or epoch milliseconds.
func ParseTimeFlexible(timeStr string) (time.Time, error) {
	if t, err := ParseISO8601(timeStr); err == nil {
		return t, nil
	}

	// Try parsing as epoch milliseconds
	ms, err := strconv.ParseInt(strings.TrimSpace(timeStr), 10, 64)
	if err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// ParseTimeLenient is used for timestamps read back from storage, which may predate
// validation or have been edited by hand.
func ParseTimeLenient(timeStr string) (time.Time, error) {
	if t, err := ParseTimeFlexible(timeStr); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(timeStr), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
	}
	return t.UTC(), nil
}
