package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/casona/innrate/internal/clock"
	"github.com/casona/innrate/internal/domain"
	"github.com/casona/innrate/internal/pricing"
)

// LedgerRepository is the persistence contract for price writes and unit
// reads. Price updates must keep last_update_at non-decreasing.
type LedgerRepository interface {
	GetUnit(ctx context.Context, unitID string) (domain.PricingUnit, error)
	ListActiveUnits(ctx context.Context) ([]domain.PricingUnit, error)
	UpdatePrice(ctx context.Context, unitID string, price float64, ts time.Time) error
	SetPrice(ctx context.Context, unitID string, price float64, ts time.Time) error
}

// RecomputeScheduler recomputes every active unit's price on a fixed
// cadence. Each sweep writes the computed price unconditionally, changed or
// not; a unit whose write fails is logged and skipped so one failure never
// blocks the rest of the sweep.
type RecomputeScheduler struct {
	ledger   LedgerRepository
	engine   *pricing.Engine
	clock    clock.Clock
	rng      pricing.Source
	log      *zap.Logger
	interval time.Duration
}

const defaultRecomputeInterval = 90 * time.Second

type RecomputeOption func(*RecomputeScheduler)

// WithRecomputeInterval overrides the sweep cadence.
func WithRecomputeInterval(d time.Duration) RecomputeOption {
	return func(s *RecomputeScheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func NewRecomputeScheduler(
	ledger LedgerRepository,
	engine *pricing.Engine,
	clk clock.Clock,
	rng pricing.Source,
	log *zap.Logger,
	opts ...RecomputeOption,
) *RecomputeScheduler {
	s := &RecomputeScheduler{
		ledger:   ledger,
		engine:   engine,
		clock:    clk,
		rng:      rng,
		log:      log,
		interval: defaultRecomputeInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunSweep recomputes and writes the price of every active unit once.
func (s *RecomputeScheduler) RunSweep(ctx context.Context) error {
	units, err := s.ledger.ListActiveUnits(ctx)
	if err != nil {
		return fmt.Errorf("list active units: %w", err)
	}

	now := s.clock.Now()
	failed := 0
	for _, u := range units {
		quote := s.engine.Compute(pricing.Inputs{
			BasePrice:     u.BasePrice(),
			Day:           now.Weekday(),
			Occupancy:     u.Occupancy(),
			Hour:          now.Hour(),
			PreviousPrice: u.CurrentPrice,
			Traffic:       u.DemandSignal,
		}, s.rng)

		if err := s.ledger.UpdatePrice(ctx, u.ID, quote.Price, now); err != nil {
			failed++
			s.log.Warn("price update failed",
				zap.String("unit_id", u.ID),
				zap.Float64("price", quote.Price),
				zap.Error(err),
			)
			continue
		}
		s.log.Debug("price recomputed",
			zap.String("unit_id", u.ID),
			zap.Float64("price", quote.Price),
			zap.Float64("delta", quote.Delta),
		)
	}

	if failed > 0 {
		s.log.Warn("recompute sweep completed with failures",
			zap.Int("units", len(units)),
			zap.Int("failed", failed),
		)
	}
	return nil
}

// Run drives RunSweep at the configured cadence until ctx is cancelled.
func (s *RecomputeScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if err := s.RunSweep(ctx); err != nil {
			s.log.Warn("recompute sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
