package app

import (
	"context"
	"testing"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type fakeBookingRepo struct {
	items    map[string]domain.InventoryItem
	bookings []domain.Booking

	snapshotItems    map[string]domain.InventoryItem
	snapshotBookings []domain.Booking
}

func newFakeBookingRepo(items ...domain.InventoryItem) *fakeBookingRepo {
	m := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		m[item.ID] = item
	}
	return &fakeBookingRepo{items: m}
}

func (r *fakeBookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.snapshotItems = make(map[string]domain.InventoryItem, len(r.items))
	for k, v := range r.items {
		r.snapshotItems[k] = v
	}
	r.snapshotBookings = append([]domain.Booking{}, r.bookings...)
	if err := fn(ctx); err != nil {
		r.items = r.snapshotItems
		r.bookings = r.snapshotBookings
		return err
	}
	return nil
}

func (r *fakeBookingRepo) GetInventoryItem(_ context.Context, kind domain.InventoryKind, id string) (domain.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok || item.Kind != kind {
		return domain.InventoryItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (r *fakeBookingRepo) DecrementAvailable(_ context.Context, kind domain.InventoryKind, id string, quantity int) error {
	item, ok := r.items[id]
	if !ok || item.Kind != kind {
		return domain.ErrItemNotFound
	}
	if item.Available < quantity {
		return domain.ErrInsufficientInventory
	}
	item.Available -= quantity
	r.items[id] = item
	return nil
}

func (r *fakeBookingRepo) CreateBooking(_ context.Context, booking domain.Booking) error {
	r.bookings = append(r.bookings, booking)
	return nil
}

func (r *fakeBookingRepo) ListBookingsByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestBookingService_CreateBooking(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	departs := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	flight := domain.InventoryItem{
		ID:            "flight-1",
		Kind:          domain.KindFlight,
		Label:         "TS101",
		TotalCapacity: 10,
		Available:     10,
		UnitPrice:     4500,
		DepartsAt:     departs,
	}

	t.Run("creates booking and decrements availability", func(t *testing.T) {
		repo := newFakeBookingRepo(flight)
		svc := NewBookingService(repo, clock.NewFixed(now))

		booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:        "user-1",
			InventoryKind: domain.KindFlight,
			InventoryID:   "flight-1",
			Quantity:      3,
			SeatIDs:       []string{"12A", "12B", "12C"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if booking.Status != domain.BookingStatusConfirmed {
			t.Fatalf("expected confirmed, got %s", booking.Status)
		}
		if booking.TotalPrice != 13500 {
			t.Fatalf("expected total 13500, got %d", booking.TotalPrice)
		}
		if !booking.TravelAt.Equal(departs) {
			t.Fatalf("expected travel_at %v, got %v", departs, booking.TravelAt)
		}
		if got := repo.items["flight-1"].Available; got != 7 {
			t.Fatalf("expected 7 seats left, got %d", got)
		}
	})

	t.Run("explicit total wins over unit price", func(t *testing.T) {
		repo := newFakeBookingRepo(flight)
		svc := NewBookingService(repo, clock.NewFixed(now))

		total := int64(8700)
		booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:        "user-1",
			InventoryKind: domain.KindFlight,
			InventoryID:   "flight-1",
			Quantity:      2,
			ExplicitTotal: &total,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if booking.TotalPrice != 8700 {
			t.Fatalf("expected total 8700, got %d", booking.TotalPrice)
		}
	})

	t.Run("missing departure falls back to 24h from booking", func(t *testing.T) {
		hotel := domain.InventoryItem{
			ID:        "hotel-1",
			Kind:      domain.KindHotel,
			Available: 5,
			UnitPrice: 12000,
		}
		repo := newFakeBookingRepo(hotel)
		svc := NewBookingService(repo, clock.NewFixed(now))

		booking, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:        "user-1",
			InventoryKind: domain.KindHotel,
			InventoryID:   "hotel-1",
			Quantity:      1,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !booking.TravelAt.Equal(now.Add(24 * time.Hour)) {
			t.Fatalf("expected fallback travel_at, got %v", booking.TravelAt)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		svc := NewBookingService(newFakeBookingRepo(), clock.NewFixed(now))

		_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:        "user-1",
			InventoryKind: domain.KindFlight,
			InventoryID:   "nope",
			Quantity:      1,
		})
		if err != domain.ErrItemNotFound {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})

	t.Run("insufficient availability leaves the counter intact", func(t *testing.T) {
		low := flight
		low.Available = 2
		repo := newFakeBookingRepo(low)
		svc := NewBookingService(repo, clock.NewFixed(now))

		_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:        "user-1",
			InventoryKind: domain.KindFlight,
			InventoryID:   "flight-1",
			Quantity:      3,
		})
		if err != domain.ErrInsufficientInventory {
			t.Fatalf("expected ErrInsufficientInventory, got %v", err)
		}
		if got := repo.items["flight-1"].Available; got != 2 {
			t.Fatalf("expected untouched availability, got %d", got)
		}
		if len(repo.bookings) != 0 {
			t.Fatalf("expected no booking written, got %d", len(repo.bookings))
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		svc := NewBookingService(newFakeBookingRepo(flight), clock.NewFixed(now))

		_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:        "user-1",
			InventoryKind: domain.KindFlight,
			InventoryID:   "flight-1",
			Quantity:      0,
		})
		if err != domain.ErrInvalidQuantity {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("invalid kind", func(t *testing.T) {
		svc := NewBookingService(newFakeBookingRepo(flight), clock.NewFixed(now))

		_, err := svc.CreateBooking(context.Background(), CreateBookingInput{
			UserID:        "user-1",
			InventoryKind: domain.InventoryKind("boat"),
			InventoryID:   "flight-1",
			Quantity:      1,
		})
		if err != domain.ErrInvalidKind {
			t.Fatalf("expected ErrInvalidKind, got %v", err)
		}
	})
}
