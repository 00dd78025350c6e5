package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"logviewer-backend/internal/dto"
	"logviewer-backend/internal/logstore"
	"logviewer-backend/internal/model"
	"logviewer-backend/internal/query"
)

type LogQueryService interface {
	SearchLogs(ctx context.Context, req dto.LogSearchRequest) ([]model.LogEntry, error)
}

type logQueryService struct {
	store  logstore.Store
	engine *query.Engine
}

func NewLogQueryService(store logstore.Store, engine *query.Engine) LogQueryService {
	return &logQueryService{
		store:  store,
		engine: engine,
	}
}

// SearchLogs validates the filters before touching storage, so a bad filter never costs a read.
func (s *logQueryService) SearchLogs(ctx context.Context, req dto.LogSearchRequest) ([]model.LogEntry, error) {
	spec, err := query.ParseFilterSpec(req.Params())
	if err != nil {
		log.Warn().Err(err).Msg("Rejected log search filters")
		return nil, err
	}

	entries, err := s.store.LoadAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load logs for search")
		return nil, err
	}

	result := s.engine.Filter(entries, spec)

	log.Debug().
		Str("level", string(spec.Level)).
		Str("message", spec.Message).
		Str("resource_id", spec.ResourceID).
		Str("trace_id", spec.TraceID).
		Str("span_id", spec.SpanID).
		Str("commit", spec.Commit).
		Int("scanned", len(entries)).
		Int("matched", len(result)).
		Msg("Searched logs")

	return result, nil
}
