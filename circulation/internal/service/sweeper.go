package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpireReservations runs one sweep cycle. Idempotent: a second run over the
// same state touches zero rows.
func (s *Service) ExpireReservations(ctx context.Context) (int64, error) {
	return s.repo.ExpireReservations(ctx, s.clock.Now())
}

// RunSweeper expires overdue reservations on a fixed interval until the
// context is canceled. A failed cycle is logged and the next tick tries
// again; skipping a cycle is harmless.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := s.log.Named("sweeper")
	for {
		select {
		case <-ticker.C:
			n, err := s.ExpireReservations(ctx)
			if err != nil {
				log.Error("expire reservations", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("reservations expired", zap.Int64("count", n))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
