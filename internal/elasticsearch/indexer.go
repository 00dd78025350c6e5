package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logviewer-backend/config"
	"logviewer-backend/internal/model"
)

// LogIndexer mirrors accepted entries into daily indices. It is write-only; searches are
// served from the JSON document.
type LogIndexer interface {
	IndexLogs(ctx context.Context, logs []model.LogEntry) error
	Close(ctx context.Context) error
}

type elasticLogIndexer struct {
	bulkIndexer     esutil.BulkIndexer
	indexPrefix     string
	now             func() time.Time
	countSuccessful uint64
	countFailed     uint64
}

// NewElasticLogIndexer returns a nil indexer when mirroring is disabled.
func NewElasticLogIndexer(lc fx.Lifecycle, cfg *config.Config) (LogIndexer, error) {
	if !cfg.Elasticsearch.Enabled {
		log.Info().Msg("Elasticsearch mirroring disabled")
		return nil, nil
	}
	if len(cfg.Elasticsearch.Addresses) == 0 {
		log.Error().Msg("Elasticsearch addresses are not configured.")
		return nil, errors.New("elasticsearch configuration missing")
	}

	client, err := connect(cfg.Elasticsearch)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to Elasticsearch after multiple retries")
		return nil, err
	}

	indexer := &elasticLogIndexer{
		indexPrefix: cfg.Elasticsearch.LogIndex,
		now:         time.Now,
	}
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        client,
		NumWorkers:    cfg.Elasticsearch.BulkWorkers,
		FlushBytes:    cfg.Elasticsearch.FlushBytes,
		FlushInterval: cfg.Elasticsearch.FlushInterval,
		OnError: func(ctx context.Context, err error) {
			log.Error().Err(err).Msg("BulkIndexer error")
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating the BulkIndexer")
		return nil, err
	}
	indexer.bulkIndexer = bi
	log.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Str("index_prefix", indexer.indexPrefix).Msg("Elasticsearch BulkIndexer initialized")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Elasticsearch BulkIndexer...")
			return indexer.Close(ctx)
		},
	})
	return indexer, nil
}

func connect(cfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: 10 * time.Second,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	}

	var client *elasticsearch.Client
	operation := func() error {
		c, err := elasticsearch.NewClient(esCfg)
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Error creating the Elasticsearch client")
			return err
		}
		res, err := c.Info(c.Info.WithContext(context.Background()))
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Elasticsearch Info() call")
			return err
		}
		defer res.Body.Close()
		if res.IsError() {
			err := fmt.Errorf("elasticsearch Info() returned error status: %s", res.Status())
			log.Warn().Err(err).Msg("Attempt failed: Elasticsearch ping returned error status")
			return err
		}
		client = c
		return nil
	}

	connectBackoff := backoff.NewExponentialBackOff()
	connectBackoff.InitialInterval = 2 * time.Second
	connectBackoff.MaxInterval = 15 * time.Second
	connectBackoff.MaxElapsedTime = 90 * time.Second

	log.Info().Msg("Attempting to connect to Elasticsearch with retries...")
	if err := backoff.Retry(operation, connectBackoff); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *elasticLogIndexer) IndexLogs(ctx context.Context, logs []model.LogEntry) error {
	var failed int
	for _, entry := range logs {
		data, err := json.Marshal(entry)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log entry for Elasticsearch")
			failed++
			continue
		}

		err = s.bulkIndexer.Add(ctx, esutil.BulkIndexerItem{
			Action: "index",
			Index:  indexName(s.indexPrefix, entry, s.now()),
			Body:   bytes.NewReader(data),
			OnSuccess: func(context.Context, esutil.BulkIndexerItem, esutil.BulkIndexerResponseItem) {
				atomic.AddUint64(&s.countSuccessful, 1)
			},
			OnFailure: func(_ context.Context, _ esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				atomic.AddUint64(&s.countFailed, 1)
				if err != nil {
					log.Error().Err(err).Msg("Elasticsearch bulk item failed")
					return
				}
				log.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("Elasticsearch bulk item failed")
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to add item to BulkIndexer")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d log entries could not be queued for indexing", failed, len(logs))
	}
	log.Debug().Int("count", len(logs)).Msg("Queued log entries for Elasticsearch")
	return nil
}

func (s *elasticLogIndexer) Close(ctx context.Context) error {
	err := s.bulkIndexer.Close(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error closing BulkIndexer")
	}

	stats := s.bulkIndexer.Stats()
	log.Info().
		Uint64("indexed", stats.NumIndexed).
		Uint64("added", stats.NumAdded).
		Uint64("flushed", stats.NumFlushed).
		Uint64("failed", stats.NumFailed).
		Uint64("callback_successful", atomic.LoadUint64(&s.countSuccessful)).
		Uint64("callback_failed", atomic.LoadUint64(&s.countFailed)).
		Msg("Elasticsearch BulkIndexer final stats")

	return err
}

// indexName picks the daily index for entry, e.g. "logviewer-2024-01-15". Entries whose
// timestamp cannot be read go to the index of the day they were mirrored.
func indexName(prefix string, entry model.LogEntry, now time.Time) string {
	day := now
	if ts, ok := entry.ParsedTimestamp(); ok {
		day = ts
	}
	return fmt.Sprintf("%s-%s", prefix, day.UTC().Format("2006-01-02"))
}
