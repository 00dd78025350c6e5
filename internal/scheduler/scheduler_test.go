package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"logviewer-backend/config"
)

type countingSnapshots struct {
	calls int
}

func (c *countingSnapshots) TakeSnapshot(context.Context) (string, error) {
	c.calls++
	return "snapshot.json", nil
}

func TestNewSchedulerDisabledWithoutSchedule(t *testing.T) {
	c, err := NewScheduler(fxtest.NewLifecycle(t), &config.Config{}, &countingSnapshots{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewSchedulerRegistersSnapshotJob(t *testing.T) {
	for _, schedule := range []string{"@daily", "0 0 * * *", "0 */5 * * * *"} {
		t.Run(schedule, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			cfg := &config.Config{Snapshot: config.SnapshotConfig{Schedule: schedule}}

			c, err := NewScheduler(lc, cfg, &countingSnapshots{})
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Len(t, c.Entries(), 1)

			lc.RequireStart()
			lc.RequireStop()
		})
	}
}

func TestNewSchedulerRejectsInvalidSchedule(t *testing.T) {
	cfg := &config.Config{Snapshot: config.SnapshotConfig{Schedule: "every tuesday"}}
	_, err := NewScheduler(fxtest.NewLifecycle(t), cfg, &countingSnapshots{})
	assert.Error(t, err)
}
