package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/casona/innrate/internal/app"
)

// StatusReporter is the minimal interface needed by the pricing status endpoint.
type StatusReporter interface {
	PricingStatus(ctx context.Context) (app.PricingStatus, error)
}

// HandlePricingStatus returns an HTTP handler reporting today's price bounds
// and the state of every active unit.
func HandlePricingStatus(svc StatusReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		status, err := svc.PricingStatus(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := pricingStatusResponse{
			Day:      strings.ToLower(status.Day.String()),
			Profile:  status.Profile,
			MinPrice: status.Bounds.Min,
			MaxPrice: status.Bounds.Max,
			Units:    make([]unitStatusResponse, 0, len(status.Units)),
		}
		for _, u := range status.Units {
			resp.Units = append(resp.Units, unitStatusResponse{
				UnitID:       u.UnitID,
				RoomType:     u.RoomType,
				Period:       string(u.Period),
				CurrentPrice: u.CurrentPrice,
				Occupancy:    u.Occupancy,
				Available:    u.Available,
				Total:        u.Total,
				LastUpdateAt: u.LastUpdateAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type pricingStatusResponse struct {
	Day      string               `json:"day"`
	Profile  string               `json:"profile"`
	MinPrice float64              `json:"min_price"`
	MaxPrice float64              `json:"max_price"`
	Units    []unitStatusResponse `json:"units"`
}

type unitStatusResponse struct {
	UnitID       string    `json:"unit_id"`
	RoomType     string    `json:"room_type"`
	Period       string    `json:"period"`
	CurrentPrice float64   `json:"current_price"`
	Occupancy    float64   `json:"occupancy"`
	Available    int       `json:"available"`
	Total        int       `json:"total"`
	LastUpdateAt time.Time `json:"last_update_at"`
}
