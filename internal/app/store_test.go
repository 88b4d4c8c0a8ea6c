package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/casona/innrate/internal/domain"
)

// fakeStore is an in-memory implementation of the app repositories. Mutations
// take one lock so availability changes are atomic, mirroring the conditional
// updates of the Postgres implementation.
type fakeStore struct {
	mu    sync.Mutex
	units map[string]*domain.PricingUnit
	holds map[string]*domain.Hold

	updatePriceErr map[string]error
	incrementErr   map[string]error
	listUnitsErr   error
	listExpiredErr error
}

func newFakeStore(units []domain.PricingUnit, holds []domain.Hold) *fakeStore {
	s := &fakeStore{
		units:          make(map[string]*domain.PricingUnit),
		holds:          make(map[string]*domain.Hold),
		updatePriceErr: make(map[string]error),
		incrementErr:   make(map[string]error),
	}
	for i := range units {
		u := units[i]
		s.units[u.ID] = &u
	}
	for i := range holds {
		h := holds[i]
		s.holds[h.ID] = &h
	}
	return s
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) GetUnit(_ context.Context, unitID string) (domain.PricingUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return domain.PricingUnit{}, domain.ErrUnitNotFound
	}
	return *u, nil
}

func (s *fakeStore) GetUnitForUpdate(ctx context.Context, unitID string) (domain.PricingUnit, error) {
	return s.GetUnit(ctx, unitID)
}

func (s *fakeStore) ListActiveUnits(context.Context) ([]domain.PricingUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listUnitsErr != nil {
		return nil, s.listUnitsErr
	}
	out := make([]domain.PricingUnit, 0, len(s.units))
	for _, u := range s.units {
		if u.Active {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) UpdatePrice(_ context.Context, unitID string, price float64, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updatePriceErr[unitID]; err != nil {
		return err
	}
	u, ok := s.units[unitID]
	if !ok {
		return domain.ErrUnitNotFound
	}
	u.CurrentPrice = price
	if ts.After(u.LastUpdateAt) {
		u.LastUpdateAt = ts
	}
	return nil
}

func (s *fakeStore) SetPrice(ctx context.Context, unitID string, price float64, ts time.Time) error {
	return s.UpdatePrice(ctx, unitID, price, ts)
}

func (s *fakeStore) TryDecrementAvailability(_ context.Context, unitID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return false, domain.ErrUnitNotFound
	}
	if u.AvailableCount <= 0 {
		return false, nil
	}
	u.AvailableCount--
	return true, nil
}

func (s *fakeStore) IncrementAvailability(_ context.Context, unitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.incrementErr[unitID]; err != nil {
		return err
	}
	u, ok := s.units[unitID]
	if !ok {
		return domain.ErrUnitNotFound
	}
	if u.AvailableCount < u.TotalCount {
		u.AvailableCount++
	}
	return nil
}

func (s *fakeStore) CreateHold(_ context.Context, hold domain.Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := hold
	s.holds[h.ID] = &h
	return nil
}

func (s *fakeStore) GetHold(_ context.Context, holdID string) (domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[holdID]
	if !ok {
		return domain.Hold{}, domain.ErrHoldNotFound
	}
	return *h, nil
}

func (s *fakeStore) ListHoldsByCustomer(_ context.Context, customerID string) ([]domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Hold, 0)
	for _, h := range s.holds {
		if h.CustomerID == customerID {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) ListExpiredActive(_ context.Context, now time.Time, limit int) ([]domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listExpiredErr != nil {
		return nil, s.listExpiredErr
	}
	out := make([]domain.Hold, 0)
	for _, h := range s.holds {
		if h.Status == domain.HoldStatusActive && h.ExpiresAt.Before(now) {
			out = append(out, *h)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) MarkExpired(_ context.Context, holdID string) (bool, error) {
	return s.flipStatus(holdID, domain.HoldStatusExpired)
}

func (s *fakeStore) MarkCancelled(_ context.Context, holdID string) (bool, error) {
	return s.flipStatus(holdID, domain.HoldStatusCancelled)
}

func (s *fakeStore) flipStatus(holdID string, to domain.HoldStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[holdID]
	if !ok {
		return false, domain.ErrHoldNotFound
	}
	if h.Status != domain.HoldStatusActive {
		return false, nil
	}
	h.Status = to
	return true, nil
}

func (s *fakeStore) CreateUnit(_ context.Context, unit domain.PricingUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := unit
	s.units[u.ID] = &u
	return nil
}

func (s *fakeStore) ListUnits(ctx context.Context) ([]domain.PricingUnit, error) {
	return s.ListActiveUnits(ctx)
}

func (s *fakeStore) unit(unitID string) domain.PricingUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.units[unitID]
}

func (s *fakeStore) hold(holdID string) domain.Hold {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.holds[holdID]
}

func (s *fakeStore) holdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.holds)
}
