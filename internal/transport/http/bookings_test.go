package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/app"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type fakeBookingWriter struct {
	createErr error
	bookings  []domain.Booking
}

func (f *fakeBookingWriter) CreateBooking(_ context.Context, in app.CreateBookingInput) (domain.Booking, error) {
	if f.createErr != nil {
		return domain.Booking{}, f.createErr
	}
	return domain.Booking{
		ID:            "b1",
		UserID:        in.UserID,
		InventoryKind: in.InventoryKind,
		InventoryID:   in.InventoryID,
		Quantity:      in.Quantity,
		SeatIDs:       in.SeatIDs,
		TotalPrice:    9000,
		Status:        domain.BookingStatusConfirmed,
		TravelAt:      time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeBookingWriter) ListBookings(context.Context, string) ([]domain.Booking, error) {
	return f.bookings, nil
}

func TestHandleBookings_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		userID         string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			userID:         "u1",
			body:           `{"inventory_kind":"flight","inventory_id":"f1","quantity":2}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"total_price":9000`,
		},
		{
			name:           "missing user",
			body:           `{"inventory_kind":"flight","inventory_id":"f1","quantity":2}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid kind",
			userID:         "u1",
			body:           `{"inventory_kind":"boat","inventory_id":"f1","quantity":2}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero quantity",
			userID:         "u1",
			body:           `{"inventory_kind":"flight","inventory_id":"f1","quantity":0}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "item missing",
			userID:         "u1",
			body:           `{"inventory_kind":"flight","inventory_id":"f1","quantity":2}`,
			serviceErr:     domain.ErrItemNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "sold out",
			userID:         "u1",
			body:           `{"inventory_kind":"flight","inventory_id":"f1","quantity":2}`,
			serviceErr:     domain.ErrInsufficientInventory,
			expectedStatus: http.StatusConflict,
			expectedSubstr: "insufficient_inventory",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeBookingWriter{createErr: tc.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tc.body))
			if tc.userID != "" {
				req.Header.Set(userIDHeader, tc.userID)
			}
			rec := httptest.NewRecorder()

			HandleBookings(svc)(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %q", tc.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleBookings_List(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingWriter{bookings: []domain.Booking{{
		ID:     "b1",
		Status: domain.BookingStatusConfirmed,
	}}}
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set(userIDHeader, "u1")
	rec := httptest.NewRecorder()

	HandleBookings(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":"b1"`) {
		t.Fatalf("expected booking in body, got %q", rec.Body.String())
	}
}
