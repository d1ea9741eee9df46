package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/travelsmart/backend/services/booking/internal/app"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// PaymentFinisher is the minimal interface needed by the payment callback.
type PaymentFinisher interface {
	CompletePayment(ctx context.Context, in app.CompletePaymentInput) (domain.Booking, error)
	FailPayment(ctx context.Context, userID, sessionID string) (int64, error)
}

// HandlePaymentResult serves POST /payments/result, the callback the payment
// collaborator invokes once a charge settles or fails.
func HandlePaymentResult(svc PaymentFinisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "user id required")
			return
		}

		var req paymentResultRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.SessionID == "" {
			writeError(w, http.StatusBadRequest, codeSessionRequired, "session_id is required")
			return
		}

		switch req.Status {
		case "failed":
			released, err := svc.FailPayment(r.Context(), userID, req.SessionID)
			if err != nil {
				if err == domain.ErrInvalidID {
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(paymentFailedResponse{Released: released})
			return
		case "success":
			kind, err := domain.ParseInventoryKind(req.InventoryKind)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
				return
			}
			if req.Quantity <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, domain.ErrInvalidQuantity.Error())
				return
			}

			booking, err := svc.CompletePayment(r.Context(), app.CompletePaymentInput{
				UserID:        userID,
				SessionID:     req.SessionID,
				InventoryKind: kind,
				InventoryID:   req.InventoryID,
				Quantity:      req.Quantity,
				SeatIDs:       req.SeatIDs,
				AmountPaid:    req.AmountPaid,
			})
			if err != nil {
				switch err {
				case domain.ErrInvalidQuantity, domain.ErrInvalidAmount:
					writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
				case domain.ErrInvalidID:
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				case domain.ErrItemNotFound:
					writeError(w, http.StatusNotFound, codeItemNotFound, err.Error())
				case domain.ErrInsufficientInventory:
					writeError(w, http.StatusConflict, codeInsufficientInventory, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newBookingResponse(booking))
			return
		default:
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "status must be success or failed")
			return
		}
	}
}

type paymentResultRequest struct {
	Status        string   `json:"status"`
	SessionID     string   `json:"session_id"`
	InventoryKind string   `json:"inventory_kind,omitempty"`
	InventoryID   string   `json:"inventory_id,omitempty"`
	Quantity      int      `json:"quantity,omitempty"`
	SeatIDs       []string `json:"seat_ids,omitempty"`
	AmountPaid    int64    `json:"amount_paid,omitempty"`
}

type paymentFailedResponse struct {
	Released int64 `json:"released"`
}
