package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/casona/innrate/internal/clock"
	"github.com/casona/innrate/internal/domain"
	"github.com/casona/innrate/internal/pricing"
)

// OverrideService writes an explicit price through the ledger, bypassing the
// price model but validated against the same day bounds. It never touches
// availability or holds.
type OverrideService struct {
	ledger LedgerRepository
	engine *pricing.Engine
	clock  clock.Clock
	log    *zap.Logger
}

func NewOverrideService(ledger LedgerRepository, engine *pricing.Engine, clk clock.Clock, log *zap.Logger) *OverrideService {
	return &OverrideService{
		ledger: ledger,
		engine: engine,
		clock:  clk,
		log:    log,
	}
}

type OverridePriceInput struct {
	UnitID string
	Price  float64
	Reason string
}

func (s *OverrideService) OverridePrice(ctx context.Context, in OverridePriceInput) (domain.PricingUnit, error) {
	if in.UnitID == "" {
		return domain.PricingUnit{}, domain.ErrInvalidID
	}
	if in.Reason == "" {
		return domain.PricingUnit{}, domain.ErrReasonRequired
	}

	now := s.clock.Now()
	bounds := s.engine.BoundsFor(now.Weekday())
	if !bounds.Contains(in.Price) {
		return domain.PricingUnit{}, domain.ErrPriceOutOfRange
	}

	unit, err := s.ledger.GetUnit(ctx, in.UnitID)
	if err != nil {
		return domain.PricingUnit{}, err
	}
	if !unit.Active {
		return domain.PricingUnit{}, domain.ErrUnitNotFound
	}

	if err := s.ledger.SetPrice(ctx, in.UnitID, in.Price, now); err != nil {
		return domain.PricingUnit{}, err
	}

	s.log.Info("price overridden",
		zap.String("unit_id", in.UnitID),
		zap.Float64("from", unit.CurrentPrice),
		zap.Float64("to", in.Price),
		zap.String("reason", in.Reason),
	)

	unit.CurrentPrice = in.Price
	unit.LastUpdateAt = now
	return unit, nil
}
