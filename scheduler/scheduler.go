// scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"disasterprep/config"
	"disasterprep/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

type AlertSyncer interface {
	SyncShelters(ctx context.Context, shelters repository.ShelterRepository) (int, error)
}

type NewsWarmer interface {
	Refresh(ctx context.Context) (int, error)
}

// cronLogger routes cron's own messages through zap.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New builds the cron runner. Expressions take six fields (seconds first);
// an empty expression leaves that job unscheduled, as does a nil target.
// The caller starts and stops the returned runner.
func New(cfg config.Scheduler, alerts AlertSyncer, shelters repository.ShelterRepository, news NewsWarmer, logger *zap.Logger) (*cron.Cron, error) {
	cl := cronLogger{s: logger.Sugar()}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if cfg.AlertSyncCron != "" && alerts != nil {
		_, err := c.AddFunc(cfg.AlertSyncCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			n, err := alerts.SyncShelters(ctx, shelters)
			if err != nil {
				logger.Error("weather alert sync failed", zap.Error(err))
				return
			}
			logger.Info("weather alert sync finished", zap.Int("alerts_created", n))
		})
		if err != nil {
			return nil, fmt.Errorf("schedule alert sync %q: %w", cfg.AlertSyncCron, err)
		}
		logger.Info("alert sync scheduled", zap.String("cron", cfg.AlertSyncCron))
	}

	if cfg.NewsWarmCron != "" && news != nil {
		_, err := c.AddFunc(cfg.NewsWarmCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			n, err := news.Refresh(ctx)
			if err != nil {
				logger.Warn("climate news warm failed", zap.Error(err))
				return
			}
			logger.Info("climate news warmed", zap.Int("items", n))
		})
		if err != nil {
			return nil, fmt.Errorf("schedule news warm %q: %w", cfg.NewsWarmCron, err)
		}
		logger.Info("news warm scheduled", zap.String("cron", cfg.NewsWarmCron))
	}

	return c, nil
}
