package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/casona/innrate/internal/app"
	"github.com/casona/innrate/internal/domain"
)

// AdminUnitService is the minimal interface needed for unit provisioning.
type AdminUnitService interface {
	CreateUnit(ctx context.Context, in app.CreateUnitInput) (domain.PricingUnit, error)
	ListUnits(ctx context.Context) ([]domain.PricingUnit, error)
}

// PriceOverrider is the minimal interface needed for manual price writes.
type PriceOverrider interface {
	OverridePrice(ctx context.Context, in app.OverridePriceInput) (domain.PricingUnit, error)
}

// HandleAdminUnits returns an HTTP handler for admin unit creation/listing.
func HandleAdminUnits(svc AdminUnitService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
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
			return
		case http.MethodPost:
			var req createUnitRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if code, msg, ok := req.validate(); !ok {
				writeError(w, http.StatusBadRequest, code, msg)
				return
			}

			unit, err := svc.CreateUnit(r.Context(), app.CreateUnitInput{
				RoomType:         req.RoomType,
				Period:           domain.PricingPeriod(req.Period),
				MorningBasePrice: req.MorningBasePrice,
				NightBasePrice:   req.NightBasePrice,
				TotalCount:       req.TotalCount,
				DemandSignal:     req.DemandSignal,
			})
			if err != nil {
				switch err {
				case domain.ErrRoomTypeRequired:
					writeError(w, http.StatusBadRequest, codeRoomTypeRequired, err.Error())
				case domain.ErrInvalidPeriod:
					writeError(w, http.StatusBadRequest, codeInvalidPeriod, err.Error())
				case domain.ErrInvalidCapacity:
					writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
				case domain.ErrInvalidBasePrice:
					writeError(w, http.StatusBadRequest, codeInvalidBasePrice, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(unitToResponse(unit))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleOverridePrice returns an HTTP handler for the manual price override.
func HandleOverridePrice(svc PriceOverrider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		unitID, ok := parseAdminUnitPricePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		var req overridePriceRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Reason == "" {
			writeError(w, http.StatusBadRequest, codeReasonRequired, domain.ErrReasonRequired.Error())
			return
		}

		unit, err := svc.OverridePrice(r.Context(), app.OverridePriceInput{
			UnitID: unitID,
			Price:  req.Price,
			Reason: req.Reason,
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrReasonRequired:
				writeError(w, http.StatusBadRequest, codeReasonRequired, err.Error())
			case domain.ErrPriceOutOfRange:
				writeError(w, http.StatusBadRequest, codePriceOutOfRange, err.Error())
			case domain.ErrUnitNotFound:
				writeError(w, http.StatusNotFound, codeUnitNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(unitToResponse(unit))
	}
}

type createUnitRequest struct {
	RoomType         string  `json:"room_type" validate:"required"`
	Period           string  `json:"period" validate:"required,oneof=morning night"`
	MorningBasePrice float64 `json:"morning_base_price" validate:"gt=0"`
	NightBasePrice   float64 `json:"night_base_price" validate:"gt=0"`
	TotalCount       int     `json:"total_count" validate:"gt=0"`
	DemandSignal     int     `json:"demand_signal" validate:"gte=0"`
}

func (r createUnitRequest) validate() (code, msg string, ok bool) {
	err := validate.Struct(r)
	if err == nil {
		return "", "", true
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return codeInvalidRequestBody, "invalid request body", false
	}
	switch fieldErrs[0].Field() {
	case "RoomType":
		return codeRoomTypeRequired, domain.ErrRoomTypeRequired.Error(), false
	case "Period":
		return codeInvalidPeriod, domain.ErrInvalidPeriod.Error(), false
	case "TotalCount":
		return codeInvalidCapacity, domain.ErrInvalidCapacity.Error(), false
	default:
		return codeInvalidBasePrice, domain.ErrInvalidBasePrice.Error(), false
	}
}

type overridePriceRequest struct {
	Price  float64 `json:"price"`
	Reason string  `json:"reason"`
}

func parseAdminUnitPricePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "units" || parts[3] != "price" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
