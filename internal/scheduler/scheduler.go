package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logviewer-backend/config"
	"logviewer-backend/internal/service"
)

const snapshotTimeout = 2 * time.Minute

// NewScheduler registers the snapshot job. It returns nil when no schedule is configured.
// Schedules take an optional seconds field, e.g. "0 0 * * * *" or "@daily".
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, snapshotSvc service.SnapshotService) (*cron.Cron, error) {
	schedule := cfg.Snapshot.Schedule
	if schedule == "" {
		log.Info().Msg("Snapshot schedule not configured, scheduler disabled")
		return nil, nil
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
		defer cancel()
		if _, err := snapshotSvc.TakeSnapshot(ctx); err != nil {
			log.Error().Err(err).Msg("Error during scheduled snapshot")
		}
	})
	if err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil, err
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled log store snapshots")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c, nil
}
