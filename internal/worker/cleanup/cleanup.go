// Package cleanup runs the background job that removes expired session
// records. Postgres has no native TTL, so expiry is enforced by this
// periodic sweep against the expires_at index.
package cleanup

import (
	"context"
	"time"

	"github.com/jobtrackr/backend/internal/repository"
	"go.uber.org/zap"
)

type Worker struct {
	sessions repository.SessionRepository
	interval time.Duration
	logger   *zap.Logger
}

func New(sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps immediately, then on every tick until the context ends.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Session cleanup worker started", zap.Duration("interval", w.interval))

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Session cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := w.sessions.DeleteExpired(sweepCtx, time.Now())
	if err != nil {
		w.logger.Error("Session cleanup sweep failed", zap.Error(err))
		return
	}

	if deleted > 0 {
		w.logger.Info("Expired sessions removed", zap.Int64("count", deleted))
	}
}
