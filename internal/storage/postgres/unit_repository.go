package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casona/innrate/internal/domain"
)

const unitColumns = `id, room_type, pricing_period, morning_base_price, night_base_price,
current_price, available_count, total_count, demand_signal, active, last_update_at, created_at`

// UnitRepository is the inventory ledger: availability changes and price
// writes are conditional single-row UPDATEs, so operations on one unit are
// linearizable without a global lock and units never interfere.
type UnitRepository struct {
	pool *pgxpool.Pool
}

func NewUnitRepository(pool *pgxpool.Pool) *UnitRepository {
	return &UnitRepository{pool: pool}
}

func (r *UnitRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *UnitRepository) GetUnit(ctx context.Context, unitID string) (domain.PricingUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	return r.scanUnit(pick(ctx, r.pool).QueryRow(ctx, query, unitID))
}

func (r *UnitRepository) GetUnitForUpdate(ctx context.Context, unitID string) (domain.PricingUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1 FOR UPDATE`
	return r.scanUnit(pick(ctx, r.pool).QueryRow(ctx, query, unitID))
}

func (r *UnitRepository) ListActiveUnits(ctx context.Context) ([]domain.PricingUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE active ORDER BY created_at, id`
	rows, err := pick(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active units: %w", err)
	}
	defer rows.Close()

	var units []domain.PricingUnit
	for rows.Next() {
		u, err := r.scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active units: %w", err)
	}
	return units, nil
}

// UpdatePrice writes a recomputed price. GREATEST keeps last_update_at
// non-decreasing even if a stale sweep timestamp arrives late.
func (r *UnitRepository) UpdatePrice(ctx context.Context, unitID string, price float64, ts time.Time) error {
	const stmt = `
UPDATE units
SET current_price = $2, last_update_at = GREATEST(last_update_at, $3)
WHERE id = $1 AND active`

	tag, err := pick(ctx, r.pool).Exec(ctx, stmt, unitID, price, ts)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnitNotFound
	}
	return nil
}

// SetPrice is the override write path; it shares UpdatePrice's semantics and
// exists as a separate name so call sites read as what they are.
func (r *UnitRepository) SetPrice(ctx context.Context, unitID string, price float64, ts time.Time) error {
	return r.UpdatePrice(ctx, unitID, price, ts)
}

// TryDecrementAvailability takes one slot if any remain. The WHERE clause is
// the whole point: under concurrent holds on the last slot exactly one
// UPDATE matches.
func (r *UnitRepository) TryDecrementAvailability(ctx context.Context, unitID string) (bool, error) {
	const stmt = `
UPDATE units
SET available_count = available_count - 1
WHERE id = $1 AND active AND available_count > 0`

	tag, err := pick(ctx, r.pool).Exec(ctx, stmt, unitID)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("decrement availability: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementAvailability returns one slot, capped at total_count. Only the
// expiry/cancel reclamation paths call this, each gated by a conditional
// status flip, so hitting the cap means the books are already wrong.
func (r *UnitRepository) IncrementAvailability(ctx context.Context, unitID string) error {
	const stmt = `
UPDATE units
SET available_count = available_count + 1
WHERE id = $1 AND available_count < total_count`

	tag, err := pick(ctx, r.pool).Exec(ctx, stmt, unitID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("increment availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increment availability: unit %s missing or already at capacity", unitID)
	}
	return nil
}

func (r *UnitRepository) CreateUnit(ctx context.Context, unit domain.PricingUnit) error {
	const stmt = `
INSERT INTO units (` + unitColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := pick(ctx, r.pool).Exec(ctx, stmt,
		unit.ID,
		unit.RoomType,
		unit.Period,
		unit.MorningBasePrice,
		unit.NightBasePrice,
		unit.CurrentPrice,
		unit.AvailableCount,
		unit.TotalCount,
		unit.DemandSignal,
		unit.Active,
		unit.LastUpdateAt,
		unit.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *UnitRepository) ListUnits(ctx context.Context) ([]domain.PricingUnit, error) {
	return r.ListActiveUnits(ctx)
}

func (r *UnitRepository) scanUnit(row pgx.Row) (domain.PricingUnit, error) {
	var u domain.PricingUnit
	err := row.Scan(
		&u.ID,
		&u.RoomType,
		&u.Period,
		&u.MorningBasePrice,
		&u.NightBasePrice,
		&u.CurrentPrice,
		&u.AvailableCount,
		&u.TotalCount,
		&u.DemandSignal,
		&u.Active,
		&u.LastUpdateAt,
		&u.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.PricingUnit{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.PricingUnit{}, domain.ErrUnitNotFound
		}
		return domain.PricingUnit{}, fmt.Errorf("scan unit: %w", err)
	}
	return u, nil
}
