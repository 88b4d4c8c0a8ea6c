package domain

import "time"

type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusExpired   HoldStatus = "expired"
	HoldStatusCancelled HoldStatus = "cancelled"
)

// Hold reserves one unit of capacity at a locked price for a limited time.
// Status transitions are monotonic: active -> expired or active -> cancelled.
type Hold struct {
	ID          string
	UnitID      string
	CustomerID  string
	LockedPrice float64
	CheckInDate time.Time
	Status      HoldStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// ExpiredBy reports whether the hold must be treated as expired at the given
// instant, even when the sweep has not persisted the transition yet. A hold
// is live through its expiry instant and expires strictly after it.
func (h Hold) ExpiredBy(now time.Time) bool {
	return h.Status == HoldStatusActive && h.ExpiresAt.Before(now)
}
