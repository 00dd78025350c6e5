package elasticsearch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"logviewer-backend/config"
	"logviewer-backend/internal/model"
)

func TestIndexName(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)

	entry := model.LogEntry{Timestamp: "2024-01-15T10:30:00.000Z"}
	assert.Equal(t, "logviewer-2024-01-15", indexName("logviewer", entry, now))

	entry.Timestamp = "2024-01-15T23:30:00-05:00"
	assert.Equal(t, "logviewer-2024-01-16", indexName("logviewer", entry, now))

	entry.Timestamp = "garbage"
	assert.Equal(t, "logviewer-2024-06-01", indexName("logviewer", entry, now))
}

func TestNewElasticLogIndexerDisabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{Elasticsearch: config.ElasticsearchConfig{Enabled: false}}

	indexer, err := NewElasticLogIndexer(lc, cfg)
	require.NoError(t, err)
	assert.Nil(t, indexer)
}

func TestNewElasticLogIndexerRequiresAddresses(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{Elasticsearch: config.ElasticsearchConfig{Enabled: true}}

	_, err := NewElasticLogIndexer(lc, cfg)
	assert.Error(t, err)
}
