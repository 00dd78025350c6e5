package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Log           LogConfig
	LogStore      LogStoreConfig
	Snapshot      SnapshotConfig
	Kafka         KafkaConfig
	Elasticsearch ElasticsearchConfig
}

type ServerConfig struct {
	Port               string
	Env                string
	CORSAllowedOrigins []string
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (s ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(s.Env, "development")
}

type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

type LogStoreConfig struct {
	FilePath string
}

type SnapshotConfig struct {
	Schedule  string // empty disables snapshots
	Directory string
	Retain    int
}

type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	LogTopic     string
	BatchSize    int
	BatchTimeout time.Duration
}

type ElasticsearchConfig struct {
	Enabled       bool
	Addresses     []string
	Username      string
	Password      string
	LogIndex      string
	BulkWorkers   int           // Number of concurrent goroutines for bulk indexing
	FlushBytes    int           // Flush threshold for bulk indexer
	FlushInterval time.Duration // Flush interval for bulk indexer
}

func NewConfig() (*Config, error) {
	v := viper.New()

	// Configure Viper to read .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	// PORT is honoured for deployments that set only the platform port variable.
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")

	v.SetDefault("SERVER_PORT", "4000")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_STORE_PATH", "./logs/logs.json")
	v.SetDefault("SNAPSHOT_SCHEDULE", "")
	v.SetDefault("SNAPSHOT_DIRECTORY", "./logs/snapshots")
	v.SetDefault("SNAPSHOT_RETAIN", 7)
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_LOG_TOPIC", "log_entries")
	v.SetDefault("KAFKA_BATCH_SIZE", 100)
	v.SetDefault("KAFKA_BATCH_TIMEOUT", "1s")
	v.SetDefault("ELASTICSEARCH_ENABLED", false)
	v.SetDefault("ELASTICSEARCH_ADDRESSES", "http://localhost:9200")
	v.SetDefault("ELASTICSEARCH_LOG_INDEX", "logviewer")
	v.SetDefault("ELASTICSEARCH_BULK_WORKERS", 2)
	v.SetDefault("ELASTICSEARCH_FLUSH_BYTES", 1048576) // 1MB
	v.SetDefault("ELASTICSEARCH_FLUSH_INTERVAL", "5s")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	// --- Server ---
	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.Env = v.GetString("APP_ENV")
	config.Server.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	// --- Logging ---
	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Format = v.GetString("LOG_FORMAT")

	// --- Log store ---
	config.LogStore.FilePath = v.GetString("LOG_STORE_PATH")

	// --- Snapshots ---
	config.Snapshot.Schedule = v.GetString("SNAPSHOT_SCHEDULE")
	config.Snapshot.Directory = v.GetString("SNAPSHOT_DIRECTORY")
	config.Snapshot.Retain = v.GetInt("SNAPSHOT_RETAIN")

	// --- Kafka ---
	config.Kafka.Enabled = v.GetBool("KAFKA_ENABLED")
	config.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	config.Kafka.LogTopic = v.GetString("KAFKA_LOG_TOPIC")
	config.Kafka.BatchSize = v.GetInt("KAFKA_BATCH_SIZE")
	config.Kafka.BatchTimeout = v.GetDuration("KAFKA_BATCH_TIMEOUT")

	// --- Elasticsearch ---
	config.Elasticsearch.Enabled = v.GetBool("ELASTICSEARCH_ENABLED")
	config.Elasticsearch.Addresses = splitList(v.GetString("ELASTICSEARCH_ADDRESSES"))
	config.Elasticsearch.Username = v.GetString("ELASTICSEARCH_USERNAME")
	config.Elasticsearch.Password = v.GetString("ELASTICSEARCH_PASSWORD")
	config.Elasticsearch.LogIndex = v.GetString("ELASTICSEARCH_LOG_INDEX")
	config.Elasticsearch.BulkWorkers = v.GetInt("ELASTICSEARCH_BULK_WORKERS")
	config.Elasticsearch.FlushBytes = v.GetInt("ELASTICSEARCH_FLUSH_BYTES")
	config.Elasticsearch.FlushInterval = v.GetDuration("ELASTICSEARCH_FLUSH_INTERVAL")

	log.Info().
		Str("port", config.Server.Port).
		Str("env", config.Server.Env).
		Str("log_store", config.LogStore.FilePath).
		Bool("kafka", config.Kafka.Enabled).
		Bool("elasticsearch", config.Elasticsearch.Enabled).
		Msg("Config loaded")
	return &config, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
