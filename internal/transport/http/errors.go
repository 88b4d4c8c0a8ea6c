package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidCheckIn     = "invalid_check_in"
	codeInvalidID          = "invalid_id"
	codeCustomerRequired   = "customer_id_required"
	codeCheckInRequired    = "check_in_required"
	codeUnitRequired       = "unit_id_required"
	codeRoomTypeRequired   = "room_type_required"
	codeReasonRequired     = "reason_required"
	codeInvalidPeriod      = "invalid_period"
	codeInvalidCapacity    = "invalid_capacity"
	codeInvalidBasePrice   = "invalid_base_price"
	codePriceOutOfRange    = "price_out_of_range"
	codeNoAvailability     = "no_availability"
	codeUnitNotFound       = "unit_not_found"
	codeHoldNotFound       = "hold_not_found"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
