// Package query filters and orders log entries. It does no I/O.
package query

import (
	"sort"
	"strings"
	"time"

	"logviewer-backend/internal/apperror"
	"logviewer-backend/internal/model"
	"logviewer-backend/internal/util"
)

// Raw parameter names accepted by ParseFilterSpec.
const (
	ParamLevel          = "level"
	ParamMessage        = "message"
	ParamResourceID     = "resourceId"
	ParamTimestampStart = "timestamp_start"
	ParamTimestampEnd   = "timestamp_end"
	ParamTraceID        = "traceId"
	ParamSpanID         = "spanId"
	ParamCommit         = "commit"
)

// FilterSpec is a conjunction of predicates. Empty strings and nil bounds are absent.
type FilterSpec struct {
	Level      model.Level
	Message    string
	ResourceID string
	TraceID    string
	SpanID     string
	Commit     string
	Start      *time.Time
	End        *time.Time
}

func (f FilterSpec) hasRange() bool {
	return f.Start != nil || f.End != nil
}

// ParseFilterSpec builds a FilterSpec from named string parameters. Blank values are ignored.
// Text values are matched as given, surrounding spaces included. A start after end is valid and
// simply matches nothing.
func ParseFilterSpec(raw map[string]string) (FilterSpec, error) {
	text := func(key string) string {
		v := raw[key]
		if strings.TrimSpace(v) == "" {
			return ""
		}
		return v
	}

	var spec FilterSpec
	if v := strings.TrimSpace(raw[ParamLevel]); v != "" {
		level, ok := model.ParseLevel(v)
		if !ok {
			return FilterSpec{}, apperror.New(apperror.InvalidFilterValue, "invalid level filter: "+v)
		}
		spec.Level = level
	}
	spec.Message = text(ParamMessage)
	spec.ResourceID = text(ParamResourceID)
	spec.TraceID = text(ParamTraceID)
	spec.SpanID = text(ParamSpanID)
	spec.Commit = text(ParamCommit)

	if v := strings.TrimSpace(raw[ParamTimestampStart]); v != "" {
		t, err := util.ParseTimeFlexible(v)
		if err != nil {
			return FilterSpec{}, apperror.Wrap(apperror.InvalidFilterValue, "invalid timestamp_start", err)
		}
		spec.Start = &t
	}
	if v := strings.TrimSpace(raw[ParamTimestampEnd]); v != "" {
		t, err := util.ParseTimeFlexible(v)
		if err != nil {
			return FilterSpec{}, apperror.Wrap(apperror.InvalidFilterValue, "invalid timestamp_end", err)
		}
		spec.End = &t
	}
	return spec, nil
}

type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock is used where the open end of a time range must be fixed.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

type candidate struct {
	entry model.LogEntry
	ts    time.Time
}

// Filter returns the entries matching spec, newest first. Entries with equal timestamps keep
// their insertion order. Entries whose timestamp cannot be parsed sort last and never match a
// time range. entries is not modified.
func (e *Engine) Filter(entries []model.LogEntry, spec FilterSpec) []model.LogEntry {
	var start, end time.Time
	if spec.hasRange() {
		start = time.Unix(0, 0).UTC()
		if spec.Start != nil {
			start = *spec.Start
		}
		end = e.now()
		if spec.End != nil {
			end = *spec.End
		}
	}

	matched := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		ts, ok := entry.ParsedTimestamp()
		if !ok {
			ts = time.Unix(0, 0).UTC()
		}
		if !matchFields(entry, spec) {
			continue
		}
		if spec.hasRange() && (!ok || ts.Before(start) || ts.After(end)) {
			continue
		}
		matched = append(matched, candidate{entry: entry, ts: ts})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ts.After(matched[j].ts)
	})

	out := make([]model.LogEntry, len(matched))
	for i, c := range matched {
		out[i] = c.entry
	}
	return out
}

func matchFields(entry model.LogEntry, spec FilterSpec) bool {
	if spec.Level != "" && !strings.EqualFold(string(entry.Level), string(spec.Level)) {
		return false
	}
	return containsFold(entry.Message, spec.Message) &&
		containsFold(entry.ResourceID, spec.ResourceID) &&
		containsFold(entry.TraceID, spec.TraceID) &&
		containsFold(entry.SpanID, spec.SpanID) &&
		containsFold(entry.Commit, spec.Commit)
}

func containsFold(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}
