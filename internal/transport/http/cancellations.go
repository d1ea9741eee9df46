package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/app"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// BookingCanceller is the minimal interface needed by the cancel endpoints.
type BookingCanceller interface {
	CancelBooking(ctx context.Context, in app.CancelBookingInput) (domain.Cancellation, error)
	CancellationForBooking(ctx context.Context, bookingID string) (domain.Cancellation, error)
}

// HandleCancelBooking serves POST /bookings/{id}/cancel.
func HandleCancelBooking(svc BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, ok := parseBookingActionPath(r.URL.Path, "cancel")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req cancelBookingRequest
		if r.Body != nil && r.ContentLength != 0 {
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
		}

		c, err := svc.CancelBooking(r.Context(), app.CancelBookingInput{
			BookingID: bookingID,
			Reason:    req.Reason,
		})
		if err != nil {
			switch {
			case err == domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case err == domain.ErrBookingNotFound:
				writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
			case err == domain.ErrAlreadyCancelled:
				writeError(w, http.StatusConflict, codeAlreadyCancelled, err.Error())
			case errors.Is(err, domain.ErrRefundFailed):
				// The booking is cancelled; only the refund leg is stuck.
				// Report the degraded outcome rather than a plain 500.
				writeError(w, http.StatusBadGateway, codeRefundFailed, domain.ErrRefundFailed.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newCancellationResponse(c))
	}
}

// HandleGetCancellation serves GET /bookings/{id}/cancellation.
func HandleGetCancellation(svc BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, ok := parseBookingActionPath(r.URL.Path, "cancellation")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		c, err := svc.CancellationForBooking(r.Context(), bookingID)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrCancellationNotFound:
				writeError(w, http.StatusNotFound, codeCancellationNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newCancellationResponse(c))
	}
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type cancellationResponse struct {
	ID           string     `json:"id"`
	BookingID    string     `json:"booking_id"`
	Reason       string     `json:"reason,omitempty"`
	Fee          int64      `json:"fee"`
	RefundAmount int64      `json:"refund_amount"`
	RefundStatus string     `json:"refund_status"`
	ProcessedAt  *time.Time `json:"refund_processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func newCancellationResponse(c domain.Cancellation) cancellationResponse {
	return cancellationResponse{
		ID:           c.ID,
		BookingID:    c.BookingID,
		Reason:       c.Reason,
		Fee:          c.Fee,
		RefundAmount: c.RefundAmount,
		RefundStatus: string(c.RefundStatus),
		ProcessedAt:  c.ProcessedAt,
		CreatedAt:    c.CreatedAt,
	}
}

func parseBookingActionPath(path, action string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "bookings" || parts[2] != action {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
