package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed      = "method_not_allowed"
	codeNotFound              = "not_found"
	codeInvalidRequestBody    = "invalid_request_body"
	codeInvalidKind           = "invalid_inventory_kind"
	codeInvalidQuantity       = "invalid_quantity"
	codeInvalidID             = "invalid_id"
	codeInvalidDepartsAt      = "invalid_departs_at"
	codeSeatIDRequired        = "seat_id_required"
	codeUserRequired          = "user_required"
	codeSessionRequired       = "session_required"
	codeLabelRequired         = "label_required"
	codeInvalidCapacity       = "invalid_capacity"
	codeSeatAlreadyLocked     = "seat_already_locked"
	codeSeatAlreadyBooked     = "seat_already_booked"
	codeItemNotFound          = "item_not_found"
	codeInsufficientInventory = "insufficient_inventory"
	codeBookingNotFound       = "booking_not_found"
	codeAlreadyCancelled      = "already_cancelled"
	codeCancellationNotFound  = "cancellation_not_found"
	codeRefundFailed          = "refund_failed"
	codeForbidden             = "forbidden"
	codeInternalError         = "internal_error"
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
