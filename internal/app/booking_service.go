package app

import (
	"context"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/domain"
	"github.com/travelsmart/backend/services/booking/internal/metrics"
)

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetInventoryItem(ctx context.Context, kind domain.InventoryKind, id string) (domain.InventoryItem, error)
	DecrementAvailable(ctx context.Context, kind domain.InventoryKind, id string, quantity int) error
	CreateBooking(ctx context.Context, booking domain.Booking) error
	ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

// BookingService converts paid-for inventory into confirmed bookings. The
// inventory row is the sole serialization point: the capacity decrement is a
// single conditional update, so two concurrent bookings can never both drain
// the same seats below zero.
type BookingService struct {
	repo  BookingRepository
	clock clock.Clock
}

func NewBookingService(repo BookingRepository, clk clock.Clock) *BookingService {
	return &BookingService{
		repo:  repo,
		clock: clk,
	}
}

type CreateBookingInput struct {
	UserID        string
	InventoryKind domain.InventoryKind
	InventoryID   string
	Quantity      int
	SeatIDs       []string
	// ExplicitTotal carries a price already fixed upstream (e.g. by the
	// payment collaborator). When nil the total is unit price x quantity.
	ExplicitTotal *int64
}

// CreateBooking validates capacity, decrements the inventory counter and
// writes a confirmed booking as one transaction. It does not consult the
// reservation ledger; callers holding seats are expected to have consumed
// them first.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if in.Quantity <= 0 {
		return domain.Booking{}, domain.ErrInvalidQuantity
	}
	if _, err := domain.ParseInventoryKind(string(in.InventoryKind)); err != nil {
		return domain.Booking{}, err
	}

	now := s.clock.Now()
	var result domain.Booking

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.GetInventoryItem(txCtx, in.InventoryKind, in.InventoryID)
		if err != nil {
			return err
		}
		if item.Available < in.Quantity {
			return domain.ErrInsufficientInventory
		}

		// The decrement re-checks capacity in the same statement; a
		// concurrent booking that won the race leaves zero rows affected.
		if err := s.repo.DecrementAvailable(txCtx, in.InventoryKind, in.InventoryID, in.Quantity); err != nil {
			return err
		}

		total := item.UnitPrice * int64(in.Quantity)
		if in.ExplicitTotal != nil {
			total = *in.ExplicitTotal
		}

		booking := domain.Booking{
			ID:            newID(),
			UserID:        in.UserID,
			InventoryKind: in.InventoryKind,
			InventoryID:   in.InventoryID,
			Quantity:      in.Quantity,
			SeatIDs:       append([]string{}, in.SeatIDs...),
			TotalPrice:    total,
			Status:        domain.BookingStatusConfirmed,
			TravelAt:      travelTime(item, now),
			CreatedAt:     now,
		}
		if err := s.repo.CreateBooking(txCtx, booking); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	metrics.BookingsCreated.Inc()
	return result, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.repo.ListBookingsByUser(ctx, userID)
}

// travelTime resolves the instant cancellation fees are measured against.
// Items without a departure fall back to 24h after booking.
func travelTime(item domain.InventoryItem, now time.Time) time.Time {
	if !item.DepartsAt.IsZero() {
		return item.DepartsAt
	}
	return now.Add(24 * time.Hour)
}
