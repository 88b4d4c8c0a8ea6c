package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/casona/innrate/internal/domain"
)

// WebhookConfig is the opaque delivery configuration supplied by the
// operator. Credentials live here, never in core logic.
type WebhookConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Webhook posts booking events as JSON to a configured endpoint.
type Webhook struct {
	client *http.Client
	url    string
	token  string
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{
		client: &http.Client{Timeout: timeout},
		url:    cfg.URL,
		token:  cfg.Token,
	}
}

type bookingEvent struct {
	HoldID      string    `json:"hold_id"`
	UnitID      string    `json:"unit_id"`
	RoomType    string    `json:"room_type"`
	CustomerID  string    `json:"customer_id"`
	LockedPrice float64   `json:"locked_price"`
	CheckInDate time.Time `json:"check_in_date"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (w *Webhook) NotifyBooking(ctx context.Context, hold domain.Hold, unit domain.PricingUnit) error {
	payload, err := json.Marshal(bookingEvent{
		HoldID:      hold.ID,
		UnitID:      unit.ID,
		RoomType:    unit.RoomType,
		CustomerID:  hold.CustomerID,
		LockedPrice: hold.LockedPrice,
		CheckInDate: hold.CheckInDate,
		ExpiresAt:   hold.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode booking event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send booking notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("booking notification rejected: status %d", resp.StatusCode)
	}
	return nil
}
