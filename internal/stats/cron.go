package stats

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartWarmer schedules periodic cache refreshes so the dashboard
// almost always hits a warm summary. The returned cron should be
// stopped on shutdown.
func StartWarmer(svc *Service, spec string, log *zap.Logger) (*cron.Cron, error) {
	if log == nil {
		log = zap.NewNop()
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := svc.Refresh(ctx); err != nil {
			log.Warn("stats warmup failed", zap.Error(err))
			return
		}
		log.Debug("stats cache refreshed")
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("stats warmer started", zap.String("schedule", spec))
	return c, nil
}
