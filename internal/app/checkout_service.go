package app

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// Notifier hands finalized outcomes to the notification collaborator
// (ticket rendering, email dispatch). Handoff failures are logged and never
// unwind the booking or cancellation.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking domain.Booking) error
	BookingCancelled(ctx context.Context, booking domain.Booking, c domain.Cancellation) error
}

// CheckoutService reacts to the payment collaborator's verdict. On success it
// consumes the session's seat holds and then creates the booking; these are
// two separate steps, so the booking path itself never re-verifies holds.
type CheckoutService struct {
	locks    *LockService
	bookings *BookingService
	notifier Notifier
	log      zerolog.Logger
}

func NewCheckoutService(locks *LockService, bookings *BookingService, notifier Notifier, log zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		locks:    locks,
		bookings: bookings,
		notifier: notifier,
		log:      log,
	}
}

type CompletePaymentInput struct {
	UserID        string
	SessionID     string
	InventoryKind domain.InventoryKind
	InventoryID   string
	Quantity      int
	SeatIDs       []string
	// AmountPaid is the total already charged by the payment gateway.
	AmountPaid int64
}

// CompletePayment finalizes a successful payment: held seats become consumed
// and a confirmed booking is written with the amount actually charged.
func (s *CheckoutService) CompletePayment(ctx context.Context, in CompletePaymentInput) (domain.Booking, error) {
	consumed, err := s.locks.ConsumeSession(ctx, in.UserID, in.SessionID)
	if err != nil {
		return domain.Booking{}, err
	}
	s.log.Debug().
		Str("user_id", in.UserID).
		Str("session_id", in.SessionID).
		Int64("consumed", consumed).
		Msg("session locks consumed")

	booking, err := s.bookings.CreateBooking(ctx, CreateBookingInput{
		UserID:        in.UserID,
		InventoryKind: in.InventoryKind,
		InventoryID:   in.InventoryID,
		Quantity:      in.Quantity,
		SeatIDs:       in.SeatIDs,
		ExplicitTotal: &in.AmountPaid,
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, booking); err != nil {
			s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("booking notification failed")
		}
	}
	return booking, nil
}

// FailPayment releases the session's holds so the seats free up right away
// instead of waiting out the hold window.
func (s *CheckoutService) FailPayment(ctx context.Context, userID, sessionID string) (int64, error) {
	return s.locks.ReleaseSession(ctx, userID, sessionID)
}
