package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/app"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// BookingWriter is the minimal interface needed to create and list bookings.
type BookingWriter interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

// HandleBookings serves POST /bookings and GET /bookings for the caller.
func HandleBookings(svc BookingWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := callerID(r)
		if userID == "" {
			writeError(w, http.StatusBadRequest, codeUserRequired, "user id required")
			return
		}

		switch r.Method {
		case http.MethodGet:
			bookings, err := svc.ListBookings(r.Context(), userID)
			if err != nil {
				if err == domain.ErrInvalidID {
					writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]bookingResponse, 0, len(bookings))
			for _, booking := range bookings {
				resp = append(resp, newBookingResponse(booking))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createBookingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			kind, err := domain.ParseInventoryKind(req.InventoryKind)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidKind, err.Error())
				return
			}
			if req.Quantity <= 0 {
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, domain.ErrInvalidQuantity.Error())
				return
			}

			booking, err := svc.CreateBooking(r.Context(), app.CreateBookingInput{
				UserID:        userID,
				InventoryKind: kind,
				InventoryID:   req.InventoryID,
				Quantity:      req.Quantity,
				SeatIDs:       req.SeatIDs,
			})
			if err != nil {
				switch err {
				case domain.ErrInvalidQuantity, domain.ErrInvalidKind:
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
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

type createBookingRequest struct {
	InventoryKind string   `json:"inventory_kind"`
	InventoryID   string   `json:"inventory_id"`
	Quantity      int      `json:"quantity"`
	SeatIDs       []string `json:"seat_ids,omitempty"`
}

type bookingResponse struct {
	ID            string    `json:"id"`
	InventoryKind string    `json:"inventory_kind"`
	InventoryID   string    `json:"inventory_id"`
	Quantity      int       `json:"quantity"`
	SeatIDs       []string  `json:"seat_ids,omitempty"`
	TotalPrice    int64     `json:"total_price"`
	Status        string    `json:"status"`
	TravelAt      time.Time `json:"travel_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func newBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		InventoryKind: string(b.InventoryKind),
		InventoryID:   b.InventoryID,
		Quantity:      b.Quantity,
		SeatIDs:       b.SeatIDs,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		TravelAt:      b.TravelAt,
		CreatedAt:     b.CreatedAt,
	}
}
