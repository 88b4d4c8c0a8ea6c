package notify

import (
	"context"

	"github.com/casona/innrate/internal/domain"
)

// Notifier delivers booking notifications. Delivery is best-effort: the
// caller logs failures and never propagates them to the booking path.
type Notifier interface {
	NotifyBooking(ctx context.Context, hold domain.Hold, unit domain.PricingUnit) error
}

// NoOp discards notifications; used when no webhook is configured and in tests.
type NoOp struct{}

func (NoOp) NotifyBooking(context.Context, domain.Hold, domain.PricingUnit) error {
	return nil
}
