package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"logviewer-backend/config"
	"logviewer-backend/internal/model"
)

type fakeWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleEntry() model.LogEntry {
	return model.LogEntry{
		Level:      model.LevelWarn,
		Message:    "slow query",
		ResourceID: "db-7",
		Timestamp:  "2024-01-01T00:00:00.000Z",
		TraceID:    "t9",
		SpanID:     "s9",
		Commit:     "deadbeef",
		Metadata:   model.Metadata{"ms": model.IntValue(812)},
	}
}

func TestProduceKeysByResource(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "log_entries")

	require.NoError(t, p.Produce(context.Background(), []model.LogEntry{sampleEntry()}))
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, "db-7", string(msg.Key))
	var decoded model.LogEntry
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "slow query", decoded.Message)
	assert.Contains(t, msg.Headers, kafka.Header{Key: "level", Value: []byte("warn")})
}

func TestProduceEmptyBatchSkipsWriter(t *testing.T) {
	w := &fakeWriter{err: errors.New("should not be called")}
	assert.NoError(t, newProducer(w, "t").Produce(context.Background(), nil))
}

func TestProduceReturnsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	err := newProducer(w, "t").Produce(context.Background(), []model.LogEntry{sampleEntry()})
	assert.EqualError(t, err, "broker down")
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, "t").Close())
	assert.True(t, w.closed)
}

func TestNewKafkaLogProducerDisabled(t *testing.T) {
	p, err := NewKafkaLogProducer(fxtest.NewLifecycle(t), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewKafkaLogProducerRequiresTopic(t *testing.T) {
	cfg := &config.Config{Kafka: config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}}}
	_, err := NewKafkaLogProducer(fxtest.NewLifecycle(t), cfg)
	assert.ErrorIs(t, err, errKafkaConfig)
}
