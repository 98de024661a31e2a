package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/logger"
)

// sessionSweepInterval is how often expired sessions are purged.
const sessionSweepInterval = time.Hour

// SessionCleanupJob purges expired sessions in the background.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob starts the session sweeper. It sweeps once
// at startup and then hourly until shutdown.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	sweep := func() {
		count, err := storeHandle.DeleteExpiredSessions(ctx)
		switch {
		case err != nil:
			log.Warn("Session sweep failed", "error", err)
		case count > 0:
			log.Info("Expired sessions removed", "deleted", count)
		}
	}

	go func() {
		sweep()

		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep()
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", sessionSweepInterval)

	return &SessionCleanupJob{cancel: cancel}, nil
}
