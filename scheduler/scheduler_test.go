package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"disasterprep/config"
	"disasterprep/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSyncer struct{ calls int32 }

func (s *countingSyncer) SyncShelters(context.Context, repository.ShelterRepository) (int, error) {
	atomic.AddInt32(&s.calls, 1)
	return 0, nil
}

type countingWarmer struct{ calls int32 }

func (w *countingWarmer) Refresh(context.Context) (int, error) {
	atomic.AddInt32(&w.calls, 1)
	return 3, nil
}

func TestNew_SchedulesConfiguredJobs(t *testing.T) {
	s, w := &countingSyncer{}, &countingWarmer{}
	c, err := New(config.Scheduler{AlertSyncCron: "* * * * * *", NewsWarmCron: "* * * * * *"},
		s, repository.NewMemoryStore().Shelters, w, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	c.Start()
	defer c.Stop()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&s.calls) > 0 && atomic.LoadInt32(&w.calls) > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestNew_SkipsUnsetJobs(t *testing.T) {
	c, err := New(config.Scheduler{NewsWarmCron: "0 0 * * * *"}, &countingSyncer{}, nil, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, c.Entries(), "news warm has no target and alert sync no expression")
}

func TestNew_RejectsBadExpression(t *testing.T) {
	_, err := New(config.Scheduler{AlertSyncCron: "every minute"}, &countingSyncer{}, nil, nil, zap.NewNop())
	assert.Error(t, err)
}
