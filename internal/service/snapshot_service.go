package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"logviewer-backend/config"
	"logviewer-backend/internal/logstore"
)

type SnapshotService interface {
	TakeSnapshot(ctx context.Context) (string, error)
}

type snapshotService struct {
	store     logstore.Store
	directory string
	retain    int
	now       func() time.Time
}

func NewSnapshotService(store logstore.Store, cfg *config.Config) SnapshotService {
	return &snapshotService{
		store:     store,
		directory: cfg.Snapshot.Directory,
		retain:    cfg.Snapshot.Retain,
		now:       time.Now,
	}
}

// TakeSnapshot copies the collection into the snapshot directory and prunes old copies.
// A failed prune does not fail the snapshot.
func (s *snapshotService) TakeSnapshot(ctx context.Context) (string, error) {
	start := s.now()
	path, err := s.store.Snapshot(ctx, s.directory, start)
	if err != nil {
		log.Error().Err(err).Str("directory", s.directory).Msg("Failed to snapshot log store")
		return "", err
	}

	removed, err := s.store.PruneSnapshots(ctx, s.directory, s.retain)
	if err != nil {
		log.Warn().Err(err).Str("directory", s.directory).Msg("Failed to prune old snapshots")
	}

	log.Info().
		Str("file", path).
		Int("pruned", len(removed)).
		Dur("took", s.now().Sub(start)).
		Msg("Snapshot completed")
	return path, nil
}
