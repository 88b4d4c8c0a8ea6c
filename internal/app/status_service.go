package app

import (
	"context"
	"time"

	"github.com/casona/innrate/internal/clock"
	"github.com/casona/innrate/internal/domain"
	"github.com/casona/innrate/internal/pricing"
)

// StatusService serves the read paths over the ledger: unit listings and
// the pricing status report.
type StatusService struct {
	ledger LedgerRepository
	engine *pricing.Engine
	clock  clock.Clock
}

func NewStatusService(ledger LedgerRepository, engine *pricing.Engine, clk clock.Clock) *StatusService {
	return &StatusService{
		ledger: ledger,
		engine: engine,
		clock:  clk,
	}
}

func (s *StatusService) ListUnits(ctx context.Context) ([]domain.PricingUnit, error) {
	return s.ledger.ListActiveUnits(ctx)
}

type UnitStatus struct {
	UnitID       string
	RoomType     string
	Period       domain.PricingPeriod
	CurrentPrice float64
	Occupancy    float64
	Available    int
	Total        int
	LastUpdateAt time.Time
}

type PricingStatus struct {
	Day     time.Weekday
	Profile string
	Bounds  pricing.Bounds
	Units   []UnitStatus
}

// PricingStatus reports today's bounds and each active unit's price and
// occupancy as of the current instant.
func (s *StatusService) PricingStatus(ctx context.Context) (PricingStatus, error) {
	units, err := s.ledger.ListActiveUnits(ctx)
	if err != nil {
		return PricingStatus{}, err
	}

	day := s.clock.Now().Weekday()
	status := PricingStatus{
		Day:     day,
		Profile: s.engine.Profile().Name,
		Bounds:  s.engine.BoundsFor(day),
		Units:   make([]UnitStatus, 0, len(units)),
	}
	for _, u := range units {
		status.Units = append(status.Units, UnitStatus{
			UnitID:       u.ID,
			RoomType:     u.RoomType,
			Period:       u.Period,
			CurrentPrice: u.CurrentPrice,
			Occupancy:    u.Occupancy(),
			Available:    u.AvailableCount,
			Total:        u.TotalCount,
			LastUpdateAt: u.LastUpdateAt,
		})
	}
	return status, nil
}
