// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"logviewer-backend/config"
)

// Setup applies level and output format to the global logger. Unknown levels fall back to info.
func Setup(cfg *config.Config) {
	SetupWriter(cfg, os.Stdout)
}

func SetupWriter(cfg *config.Config, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Log.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = out
	if !strings.EqualFold(cfg.Log.Format, "json") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Str("service", "logviewer").Logger()

	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown LOG_LEVEL, using info")
	}
}
