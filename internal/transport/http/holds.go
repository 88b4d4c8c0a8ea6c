package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/casona/innrate/internal/app"
	"github.com/casona/innrate/internal/domain"
)

const checkInLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// HoldService is the minimal interface needed by the hold endpoints.
type HoldService interface {
	CreateHold(ctx context.Context, in app.CreateHoldInput) (domain.Hold, error)
	ListHoldsFor(ctx context.Context, customerID string) ([]domain.Hold, error)
	CancelHold(ctx context.Context, holdID, customerID string) (domain.Hold, error)
}

// HandleHolds returns an HTTP handler for creating and listing holds.
func HandleHolds(svc HoldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handleCreateHold(svc, w, r)
		case http.MethodGet:
			handleListHolds(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func handleCreateHold(svc HoldService, w http.ResponseWriter, r *http.Request) {
	var req createHoldRequest
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

	checkIn, err := time.Parse(checkInLayout, req.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidCheckIn, "check_in must be formatted YYYY-MM-DD")
		return
	}

	hold, err := svc.CreateHold(r.Context(), app.CreateHoldInput{
		UnitID:     req.UnitID,
		CustomerID: req.CustomerID,
		CheckIn:    checkIn,
	})
	if err != nil {
		switch err {
		case domain.ErrInvalidID:
			writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		case domain.ErrCustomerRequired:
			writeError(w, http.StatusBadRequest, codeCustomerRequired, err.Error())
		case domain.ErrCheckInRequired:
			writeError(w, http.StatusBadRequest, codeCheckInRequired, err.Error())
		case domain.ErrUnitNotFound:
			writeError(w, http.StatusNotFound, codeUnitNotFound, err.Error())
		case domain.ErrNoAvailability:
			writeError(w, http.StatusConflict, codeNoAvailability, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(holdToResponse(hold))
}

func handleListHolds(svc HoldService, w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, codeCustomerRequired, domain.ErrCustomerRequired.Error())
		return
	}

	holds, err := svc.ListHoldsFor(r.Context(), customerID)
	if err != nil {
		switch err {
		case domain.ErrCustomerRequired:
			writeError(w, http.StatusBadRequest, codeCustomerRequired, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	resp := make([]holdResponse, 0, len(holds))
	for _, h := range holds {
		resp = append(resp, holdToResponse(h))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleCancelHold returns an HTTP handler for releasing a hold early.
func HandleCancelHold(svc HoldService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		holdID, ok := parseHoldPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		customerID := r.URL.Query().Get("customer_id")
		if customerID == "" {
			writeError(w, http.StatusBadRequest, codeCustomerRequired, domain.ErrCustomerRequired.Error())
			return
		}

		hold, err := svc.CancelHold(r.Context(), holdID, customerID)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrHoldNotFound:
				writeError(w, http.StatusNotFound, codeHoldNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(holdToResponse(hold))
	}
}

func parseHoldPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "holds" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type createHoldRequest struct {
	UnitID     string `json:"unit_id" validate:"required"`
	CustomerID string `json:"customer_id" validate:"required"`
	CheckIn    string `json:"check_in" validate:"required"`
}

func (r createHoldRequest) validate() (code, msg string, ok bool) {
	err := validate.Struct(r)
	if err == nil {
		return "", "", true
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return codeInvalidRequestBody, "invalid request body", false
	}
	switch fieldErrs[0].Field() {
	case "UnitID":
		return codeUnitRequired, "unit_id is required", false
	case "CustomerID":
		return codeCustomerRequired, domain.ErrCustomerRequired.Error(), false
	default:
		return codeCheckInRequired, domain.ErrCheckInRequired.Error(), false
	}
}

type holdResponse struct {
	ID          string    `json:"id"`
	UnitID      string    `json:"unit_id"`
	CustomerID  string    `json:"customer_id"`
	LockedPrice float64   `json:"locked_price"`
	CheckInDate string    `json:"check_in_date"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func holdToResponse(h domain.Hold) holdResponse {
	return holdResponse{
		ID:          h.ID,
		UnitID:      h.UnitID,
		CustomerID:  h.CustomerID,
		LockedPrice: h.LockedPrice,
		CheckInDate: h.CheckInDate.Format(checkInLayout),
		Status:      string(h.Status),
		ExpiresAt:   h.ExpiresAt,
		CreatedAt:   h.CreatedAt,
	}
}
