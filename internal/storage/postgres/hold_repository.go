package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casona/innrate/internal/domain"
)

const holdColumns = `id, unit_id, customer_id, locked_price, check_in_date, status, expires_at, created_at`

// HoldRepository persists holds. It embeds the unit repository because the
// hold lifecycle mutates unit availability inside the same transaction.
type HoldRepository struct {
	*UnitRepository
	pool *pgxpool.Pool
}

func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return &HoldRepository{
		UnitRepository: NewUnitRepository(pool),
		pool:           pool,
	}
}

func (r *HoldRepository) CreateHold(ctx context.Context, hold domain.Hold) error {
	const stmt = `
INSERT INTO holds (` + holdColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := pick(ctx, r.pool).Exec(ctx, stmt,
		hold.ID,
		hold.UnitID,
		hold.CustomerID,
		hold.LockedPrice,
		hold.CheckInDate,
		hold.Status,
		hold.ExpiresAt,
		hold.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create hold: %w", err)
	}
	return nil
}

func (r *HoldRepository) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	query := `SELECT ` + holdColumns + ` FROM holds WHERE id = $1`
	return r.scanHold(pick(ctx, r.pool).QueryRow(ctx, query, holdID))
}

func (r *HoldRepository) ListHoldsByCustomer(ctx context.Context, customerID string) ([]domain.Hold, error) {
	query := `SELECT ` + holdColumns + ` FROM holds WHERE customer_id = $1 ORDER BY created_at`
	rows, err := pick(ctx, r.pool).Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list holds by customer: %w", err)
	}
	defer rows.Close()

	var holds []domain.Hold
	for rows.Next() {
		h, err := r.scanHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list holds by customer: %w", err)
	}
	return holds, nil
}

func (r *HoldRepository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]domain.Hold, error) {
	query := `
SELECT ` + holdColumns + `
FROM holds
WHERE status = 'active' AND expires_at < $1
ORDER BY expires_at
LIMIT $2`

	rows, err := pick(ctx, r.pool).Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired holds: %w", err)
	}
	defer rows.Close()

	var holds []domain.Hold
	for rows.Next() {
		h, err := r.scanHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expired holds: %w", err)
	}
	return holds, nil
}

// MarkExpired flips an active hold to expired. The status guard in the WHERE
// clause makes the transition happen at most once, which is what lets the
// caller reclaim capacity exactly once per hold.
func (r *HoldRepository) MarkExpired(ctx context.Context, holdID string) (bool, error) {
	return r.flipStatus(ctx, holdID, domain.HoldStatusExpired)
}

func (r *HoldRepository) MarkCancelled(ctx context.Context, holdID string) (bool, error) {
	return r.flipStatus(ctx, holdID, domain.HoldStatusCancelled)
}

func (r *HoldRepository) flipStatus(ctx context.Context, holdID string, to domain.HoldStatus) (bool, error) {
	const stmt = `UPDATE holds SET status = $2 WHERE id = $1 AND status = 'active'`

	tag, err := pick(ctx, r.pool).Exec(ctx, stmt, holdID, to)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("update hold status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *HoldRepository) scanHold(row pgx.Row) (domain.Hold, error) {
	var h domain.Hold
	err := row.Scan(
		&h.ID,
		&h.UnitID,
		&h.CustomerID,
		&h.LockedPrice,
		&h.CheckInDate,
		&h.Status,
		&h.ExpiresAt,
		&h.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Hold{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Hold{}, domain.ErrHoldNotFound
		}
		return domain.Hold{}, fmt.Errorf("scan hold: %w", err)
	}
	return h, nil
}
