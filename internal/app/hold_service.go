package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casona/innrate/internal/clock"
	"github.com/casona/innrate/internal/domain"
	"github.com/casona/innrate/internal/notify"
)

// HoldRepository is the persistence contract for the hold lifecycle. Unit
// mutations must be atomic conditional updates so that concurrent holds on
// the last slot cannot both succeed.
type HoldRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetUnitForUpdate(ctx context.Context, unitID string) (domain.PricingUnit, error)
	TryDecrementAvailability(ctx context.Context, unitID string) (bool, error)
	IncrementAvailability(ctx context.Context, unitID string) error
	CreateHold(ctx context.Context, hold domain.Hold) error
	GetHold(ctx context.Context, holdID string) (domain.Hold, error)
	ListHoldsByCustomer(ctx context.Context, customerID string) ([]domain.Hold, error)
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]domain.Hold, error)
	MarkExpired(ctx context.Context, holdID string) (bool, error)
	MarkCancelled(ctx context.Context, holdID string) (bool, error)
}

const (
	defaultHoldTTL     = 30 * time.Minute
	expireSweepBatch   = 500
	notifySendDeadline = 10 * time.Second
)

// HoldService creates price-locked holds against unit availability and
// reclaims capacity from expired ones.
type HoldService struct {
	repo     HoldRepository
	clock    clock.Clock
	notifier notify.Notifier
	log      *zap.Logger
	holdTTL  time.Duration
	reclaim  bool
}

type HoldServiceOption func(*HoldService)

// WithHoldTTL overrides the default 30 minute hold lifetime.
func WithHoldTTL(d time.Duration) HoldServiceOption {
	return func(s *HoldService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithNotifier sets the booking notification collaborator.
func WithNotifier(n notify.Notifier) HoldServiceOption {
	return func(s *HoldService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithoutReclamation disables capacity reclamation on expiry, matching the
// legacy behavior where expired holds kept their slot consumed.
func WithoutReclamation() HoldServiceOption {
	return func(s *HoldService) {
		s.reclaim = false
	}
}

func NewHoldService(repo HoldRepository, clk clock.Clock, log *zap.Logger, opts ...HoldServiceOption) *HoldService {
	svc := &HoldService{
		repo:     repo,
		clock:    clk,
		notifier: notify.NoOp{},
		log:      log,
		holdTTL:  defaultHoldTTL,
		reclaim:  true,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateHoldInput struct {
	UnitID     string
	CustomerID string
	CheckIn    time.Time
}

// CreateHold reserves one slot of the unit at its current price. The price
// read and the availability decrement happen in one transaction against the
// row-locked unit, so the locked price is the price at the creation instant.
func (s *HoldService) CreateHold(ctx context.Context, in CreateHoldInput) (domain.Hold, error) {
	if in.UnitID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	if in.CustomerID == "" {
		return domain.Hold{}, domain.ErrCustomerRequired
	}
	if in.CheckIn.IsZero() {
		return domain.Hold{}, domain.ErrCheckInRequired
	}

	now := s.clock.Now()
	var (
		hold domain.Hold
		unit domain.PricingUnit
	)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		u, err := s.repo.GetUnitForUpdate(txCtx, in.UnitID)
		if err != nil {
			return err
		}
		if !u.Active {
			return domain.ErrUnitNotFound
		}

		ok, err := s.repo.TryDecrementAvailability(txCtx, in.UnitID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNoAvailability
		}

		hold = domain.Hold{
			ID:          uuid.NewString(),
			UnitID:      u.ID,
			CustomerID:  in.CustomerID,
			LockedPrice: u.CurrentPrice,
			CheckInDate: in.CheckIn,
			Status:      domain.HoldStatusActive,
			ExpiresAt:   now.Add(s.holdTTL),
			CreatedAt:   now,
		}
		if err := s.repo.CreateHold(txCtx, hold); err != nil {
			return err
		}
		unit = u
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	s.notifyBooking(hold, unit)
	return hold, nil
}

// notifyBooking is fire-and-forget: delivery failure or latency never
// delays or fails the booking response.
func (s *HoldService) notifyBooking(hold domain.Hold, unit domain.PricingUnit) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifySendDeadline)
		defer cancel()
		if err := s.notifier.NotifyBooking(ctx, hold, unit); err != nil {
			s.log.Warn("booking notification failed",
				zap.String("hold_id", hold.ID),
				zap.String("unit_id", unit.ID),
				zap.Error(err),
			)
		}
	}()
}

// ExpireSweep transitions overdue active holds to expired and reclaims their
// capacity. The conditional status flip gates the increment, so re-running
// the sweep over an already-expired hold reclaims nothing twice. It returns
// the number of holds expired; per-hold failures are logged and skipped.
func (s *HoldService) ExpireSweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	overdue, err := s.repo.ListExpiredActive(ctx, now, expireSweepBatch)
	if err != nil {
		return 0, fmt.Errorf("list expired holds: %w", err)
	}

	expired := 0
	var sweepErr error
	for _, h := range overdue {
		hold := h
		flipped := false
		err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
			ok, err := s.repo.MarkExpired(txCtx, hold.ID)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			flipped = true
			if !s.reclaim {
				return nil
			}
			return s.repo.IncrementAvailability(txCtx, hold.UnitID)
		})
		if err != nil {
			s.log.Warn("hold expiry failed",
				zap.String("hold_id", hold.ID),
				zap.String("unit_id", hold.UnitID),
				zap.Error(err),
			)
			sweepErr = errors.Join(sweepErr, err)
			continue
		}
		if flipped {
			expired++
		}
	}
	return expired, sweepErr
}

// RunExpiry drives ExpireSweep at the given cadence until ctx is cancelled.
func (s *HoldService) RunExpiry(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if n, err := s.ExpireSweep(ctx); err != nil {
			s.log.Warn("expire sweep finished with errors", zap.Int("expired", n), zap.Error(err))
		} else if n > 0 {
			s.log.Info("expire sweep reclaimed holds", zap.Int("expired", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ListHoldsFor returns a customer's holds. A hold past its expiry that the
// sweep has not visited yet is reported as expired without being persisted.
func (s *HoldService) ListHoldsFor(ctx context.Context, customerID string) ([]domain.Hold, error) {
	if customerID == "" {
		return nil, domain.ErrCustomerRequired
	}
	holds, err := s.repo.ListHoldsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for i := range holds {
		if holds[i].ExpiredBy(now) {
			holds[i].Status = domain.HoldStatusExpired
		}
	}
	return holds, nil
}

// CancelHold releases an active hold before it expires. Only the owning
// customer may cancel; cancelling an already expired or cancelled hold is
// reported as not found.
func (s *HoldService) CancelHold(ctx context.Context, holdID, customerID string) (domain.Hold, error) {
	if holdID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	if customerID == "" {
		return domain.Hold{}, domain.ErrCustomerRequired
	}

	now := s.clock.Now()
	var cancelled domain.Hold

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		hold, err := s.repo.GetHold(txCtx, holdID)
		if err != nil {
			return err
		}
		if hold.CustomerID != customerID {
			return domain.ErrHoldNotFound
		}
		if hold.Status != domain.HoldStatusActive || hold.ExpiredBy(now) {
			return domain.ErrHoldNotFound
		}

		flipped, err := s.repo.MarkCancelled(txCtx, holdID)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.ErrHoldNotFound
		}
		if err := s.repo.IncrementAvailability(txCtx, hold.UnitID); err != nil {
			return err
		}
		hold.Status = domain.HoldStatusCancelled
		cancelled = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}
	return cancelled, nil
}
