package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/casona/innrate/internal/domain"
)

// UnitLister is the minimal interface needed by the public unit listing.
type UnitLister interface {
	ListUnits(ctx context.Context) ([]domain.PricingUnit, error)
}

// HandleListUnits returns an HTTP handler listing active units with their
// current prices and availability.
func HandleListUnits(svc UnitLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		units, err := svc.ListUnits(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]unitResponse, 0, len(units))
		for _, u := range units {
			resp = append(resp, unitToResponse(u))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type unitResponse struct {
	ID               string    `json:"id"`
	RoomType         string    `json:"room_type"`
	Period           string    `json:"period"`
	MorningBasePrice float64   `json:"morning_base_price"`
	NightBasePrice   float64   `json:"night_base_price"`
	CurrentPrice     float64   `json:"current_price"`
	AvailableCount   int       `json:"available_count"`
	TotalCount       int       `json:"total_count"`
	DemandSignal     int       `json:"demand_signal"`
	Active           bool      `json:"active"`
	LastUpdateAt     time.Time `json:"last_update_at"`
}

func unitToResponse(u domain.PricingUnit) unitResponse {
	return unitResponse{
		ID:               u.ID,
		RoomType:         u.RoomType,
		Period:           string(u.Period),
		MorningBasePrice: u.MorningBasePrice,
		NightBasePrice:   u.NightBasePrice,
		CurrentPrice:     u.CurrentPrice,
		AvailableCount:   u.AvailableCount,
		TotalCount:       u.TotalCount,
		DemandSignal:     u.DemandSignal,
		Active:           u.Active,
		LastUpdateAt:     u.LastUpdateAt,
	}
}
