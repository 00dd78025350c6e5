package dto

import (
	"logviewer-backend/internal/query"
)

// LogSearchRequest holds the raw query string filters of GET /api/logs.
// Values are validated by query.ParseFilterSpec, not here.
type LogSearchRequest struct {
	Level          string `form:"level"`
	Message        string `form:"message"`
	ResourceID     string `form:"resourceId"`
	TimestampStart string `form:"timestamp_start"`
	TimestampEnd   string `form:"timestamp_end"`
	TraceID        string `form:"traceId"`
	SpanID         string `form:"spanId"`
	Commit         string `form:"commit"`
}

func (r LogSearchRequest) Params() map[string]string {
	return map[string]string{
		query.ParamLevel:          r.Level,
		query.ParamMessage:        r.Message,
		query.ParamResourceID:     r.ResourceID,
		query.ParamTimestampStart: r.TimestampStart,
		query.ParamTimestampEnd:   r.TimestampEnd,
		query.ParamTraceID:        r.TraceID,
		query.ParamSpanID:         r.SpanID,
		query.ParamCommit:         r.Commit,
	}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
