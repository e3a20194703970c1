package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/usecase/shared"
)

// IdempotencySweeper purges expired ledger rows. Lookups already treat expired
// rows as absent; the sweep only keeps the table small.
type IdempotencySweeper struct {
	ledger   shared.IdempotencyLedger
	clock    clock.Clock
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIdempotencySweeper(ledger shared.IdempotencyLedger, clk clock.Clock, interval time.Duration) *IdempotencySweeper {
	return &IdempotencySweeper{ledger: ledger, clock: clk, interval: interval}
}

func (s *IdempotencySweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.ledger.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("purged expired idempotency keys", "count", n)
	}
	return n, nil
}

func (s *IdempotencySweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.SweepOnce(ctx); err != nil {
					slog.Warn("idempotency sweep failed", "error", err.Error())
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *IdempotencySweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}
