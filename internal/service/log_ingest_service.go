package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"logviewer-backend/internal/elasticsearch"
	"logviewer-backend/internal/kafka"
	"logviewer-backend/internal/logstore"
	"logviewer-backend/internal/model"
)

type LogIngestService interface {
	CreateLog(ctx context.Context, entry model.LogEntry) (model.LogEntry, error)
}

type logIngestService struct {
	store    logstore.Store
	producer kafka.LogProducer
	indexer  elasticsearch.LogIndexer
}

// NewLogIngestService builds the ingest path. producer and indexer may be nil when the
// corresponding mirror is disabled.
func NewLogIngestService(store logstore.Store, producer kafka.LogProducer, indexer elasticsearch.LogIndexer) LogIngestService {
	return &logIngestService{
		store:    store,
		producer: producer,
		indexer:  indexer,
	}
}

func (s *logIngestService) CreateLog(ctx context.Context, entry model.LogEntry) (model.LogEntry, error) {
	if err := entry.Validate(); err != nil {
		log.Warn().Err(err).Str("resource_id", entry.ResourceID).Msg("Rejected log entry")
		return model.LogEntry{}, err
	}
	if level, ok := model.ParseLevel(string(entry.Level)); ok {
		entry.Level = level
	}

	stored, err := s.store.Append(ctx, entry)
	if err != nil {
		log.Error().Err(err).Str("resource_id", entry.ResourceID).Msg("Failed to append log entry")
		return model.LogEntry{}, err
	}

	log.Info().
		Str("level", string(stored.Level)).
		Str("resource_id", stored.ResourceID).
		Str("trace_id", stored.TraceID).
		Msg("Log entry added")

	s.mirror(ctx, stored)
	return stored, nil
}

// mirror forwards a committed entry. The JSON document stays authoritative, so mirror
// failures are logged and never reported to the caller.
func (s *logIngestService) mirror(ctx context.Context, entry model.LogEntry) {
	ctx = context.WithoutCancel(ctx)
	batch := []model.LogEntry{entry}
	if s.producer != nil {
		if err := s.producer.Produce(ctx, batch); err != nil {
			log.Warn().Err(err).Msg("Failed to publish log entry to Kafka")
		}
	}
	if s.indexer != nil {
		if err := s.indexer.IndexLogs(ctx, batch); err != nil {
			log.Warn().Err(err).Msg("Failed to index log entry in Elasticsearch")
		}
	}
}
