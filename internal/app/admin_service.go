package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/casona/innrate/internal/clock"
	"github.com/casona/innrate/internal/domain"
	"github.com/casona/innrate/internal/pricing"
)

// AdminRepository is the persistence contract for unit provisioning.
type AdminRepository interface {
	CreateUnit(ctx context.Context, unit domain.PricingUnit) error
	ListUnits(ctx context.Context) ([]domain.PricingUnit, error)
}

// AdminService provisions pricing units. Units start fully available at
// their period base price clamped into today's bounds.
type AdminService struct {
	repo   AdminRepository
	engine *pricing.Engine
	clock  clock.Clock
}

func NewAdminService(repo AdminRepository, engine *pricing.Engine, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:   repo,
		engine: engine,
		clock:  clk,
	}
}

type CreateUnitInput struct {
	RoomType         string
	Period           domain.PricingPeriod
	MorningBasePrice float64
	NightBasePrice   float64
	TotalCount       int
	DemandSignal     int
}

func (s *AdminService) CreateUnit(ctx context.Context, in CreateUnitInput) (domain.PricingUnit, error) {
	if in.RoomType == "" {
		return domain.PricingUnit{}, domain.ErrRoomTypeRequired
	}
	if in.Period != domain.PeriodMorning && in.Period != domain.PeriodNight {
		return domain.PricingUnit{}, domain.ErrInvalidPeriod
	}
	if in.MorningBasePrice <= 0 || in.NightBasePrice <= 0 {
		return domain.PricingUnit{}, domain.ErrInvalidBasePrice
	}
	if in.TotalCount <= 0 {
		return domain.PricingUnit{}, domain.ErrInvalidCapacity
	}

	now := s.clock.Now()
	unit := domain.PricingUnit{
		ID:               uuid.NewString(),
		RoomType:         in.RoomType,
		Period:           in.Period,
		MorningBasePrice: in.MorningBasePrice,
		NightBasePrice:   in.NightBasePrice,
		AvailableCount:   in.TotalCount,
		TotalCount:       in.TotalCount,
		DemandSignal:     in.DemandSignal,
		Active:           true,
		LastUpdateAt:     now,
		CreatedAt:        now,
	}

	// The first sweep replaces this, but the unit must never be visible
	// outside today's bounds.
	bounds := s.engine.BoundsFor(now.Weekday())
	price := unit.BasePrice()
	if price < bounds.Min {
		price = bounds.Min
	}
	if price > bounds.Max {
		price = bounds.Max
	}
	unit.CurrentPrice = price

	if err := s.repo.CreateUnit(ctx, unit); err != nil {
		return domain.PricingUnit{}, err
	}
	return unit, nil
}

func (s *AdminService) ListUnits(ctx context.Context) ([]domain.PricingUnit, error) {
	return s.repo.ListUnits(ctx)
}
