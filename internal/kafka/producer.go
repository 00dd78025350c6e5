package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"logviewer-backend/config"
	"logviewer-backend/internal/model"
)

// LogProducer publishes accepted entries to a topic, keyed by resource id so one resource's
// entries stay on one partition.
type LogProducer interface {
	Produce(ctx context.Context, logs []model.LogEntry) error
	Close() error
}

var errKafkaConfig = errors.New("kafka configuration missing")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaLogProducer struct {
	writer messageWriter
	topic  string
}

// NewKafkaLogProducer returns a nil producer when publishing is disabled.
func NewKafkaLogProducer(lc fx.Lifecycle, cfg *config.Config) (LogProducer, error) {
	if !cfg.Kafka.Enabled {
		log.Info().Msg("Kafka publishing disabled")
		return nil, nil
	}
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.LogTopic == "" {
		log.Error().Msg("Kafka brokers or log topic is not configured.")
		return nil, errKafkaConfig
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.LogTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("message_count", len(messages)).Msg("Async Kafka write failed")
			}
		},
	}
	p := newProducer(writer, cfg.Kafka.LogTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.LogTopic).Msg("Kafka producer initialized")
	return p, nil
}

func newProducer(w messageWriter, topic string) *kafkaLogProducer {
	return &kafkaLogProducer{writer: w, topic: topic}
}

func (p *kafkaLogProducer) Produce(ctx context.Context, logs []model.LogEntry) error {
	messages := toMessages(logs)
	if len(messages) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Produced messages to Kafka")
	return nil
}

func (p *kafkaLogProducer) Close() error {
	return p.writer.Close()
}

func toMessages(logs []model.LogEntry) []kafka.Message {
	messages := make([]kafka.Message, 0, len(logs))
	for _, entry := range logs {
		value, err := json.Marshal(entry)
		if err != nil {
			log.Error().Err(err).Str("resource_id", entry.ResourceID).Msg("Failed to marshal log entry for Kafka")
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(entry.ResourceID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "level", Value: []byte(entry.Level)},
				{Key: "traceId", Value: []byte(entry.TraceID)},
			},
		})
	}
	return messages
}
