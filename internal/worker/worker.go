package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/correlate"
	"github.com/zeakmc/gatekeeper/internal/service"
)

// StartSubscribers registers the event-driven workers.
func StartSubscribers(audit *service.AuditRecorder, notifications *service.NotificationService) {
	if audit != nil {
		audit.RegisterHandlers()
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
}

// RunSessionSweeper drops expired feedback sessions on an interval until ctx
// is cancelled. Expiry is enforced on resolve regardless; this only reclaims
// memory held by sessions that were never answered.
func RunSessionSweeper(ctx context.Context, store correlate.Store, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.Sweep(ctx)
			if err != nil {
				logger.Warn("feedback session sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("feedback sessions expired", zap.Int("removed", removed))
			}
		}
	}
}
