package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/domain"
	"github.com/travelsmart/backend/services/booking/internal/metrics"
)

type CancellationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error
	IncrementAvailable(ctx context.Context, kind domain.InventoryKind, id string, quantity int) error
	DeleteSeatLocks(ctx context.Context, kind domain.InventoryKind, inventoryID string, seatIDs []string) error
	CreateCancellation(ctx context.Context, c domain.Cancellation) error
	UpdateCancellation(ctx context.Context, c domain.Cancellation) error
	GetCancellationByBooking(ctx context.Context, bookingID string) (domain.Cancellation, error)
}

// Refunder is the slice of the wallet service the cancellation flow needs.
type Refunder interface {
	Credit(ctx context.Context, userID string, amount int64, description, referenceID string) (domain.WalletTransaction, error)
}

// CancellationService reverses a booking: capacity back to the inventory
// item, seat locks deleted, a time-tiered fee withheld and the remainder
// credited to the user's wallet. Cancelling the booking is the primary,
// must-succeed effect; the refund is a secondary effect that may fail and be
// retried by an operator.
type CancellationService struct {
	repo     CancellationRepository
	wallet   Refunder
	notifier Notifier
	clock    clock.Clock
	log      zerolog.Logger
}

func NewCancellationService(repo CancellationRepository, wallet Refunder, notifier Notifier, clk clock.Clock, log zerolog.Logger) *CancellationService {
	return &CancellationService{
		repo:     repo,
		wallet:   wallet,
		notifier: notifier,
		clock:    clk,
		log:      log,
	}
}

type CancelBookingInput struct {
	BookingID string
	Reason    string
}

// CancelBooking voids a confirmed booking. A second cancel of the same
// booking fails with ErrAlreadyCancelled and touches nothing.
func (s *CancellationService) CancelBooking(ctx context.Context, in CancelBookingInput) (domain.Cancellation, error) {
	now := s.clock.Now()

	var (
		booking      domain.Booking
		cancellation domain.Cancellation
	)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.repo.GetBookingForUpdate(txCtx, in.BookingID)
		if err != nil {
			return err
		}
		if booking.Status == domain.BookingStatusCancelled {
			return domain.ErrAlreadyCancelled
		}

		if err := s.repo.IncrementAvailable(txCtx, booking.InventoryKind, booking.InventoryID, booking.Quantity); err != nil {
			return err
		}

		// Delete rather than expire: the booking is void, the seats
		// must be selectable again immediately.
		if len(booking.SeatIDs) > 0 {
			if err := s.repo.DeleteSeatLocks(txCtx, booking.InventoryKind, booking.InventoryID, booking.SeatIDs); err != nil {
				return err
			}
		}

		fee := CancellationFee(booking.TotalPrice, booking.TravelAt, now)

		if err := s.repo.UpdateBookingStatus(txCtx, booking.ID, domain.BookingStatusCancelled); err != nil {
			return err
		}

		cancellation = domain.Cancellation{
			ID:           newID(),
			BookingID:    booking.ID,
			Reason:       in.Reason,
			Fee:          fee,
			RefundAmount: booking.TotalPrice - fee,
			RefundStatus: domain.RefundStatusPending,
			CreatedAt:    now,
		}
		return s.repo.CreateCancellation(txCtx, cancellation)
	})
	if err != nil {
		return domain.Cancellation{}, err
	}

	metrics.BookingsCancelled.Inc()

	// The refund runs after the cancel transaction committed: a refund
	// failure must not resurrect the booking.
	refundErr := s.processRefund(ctx, booking, &cancellation)

	// The record is terminal once the refund leg settles, completed or
	// failed, so the handoff happens on both outcomes.
	if s.notifier != nil {
		if err := s.notifier.BookingCancelled(ctx, booking, cancellation); err != nil {
			s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("cancellation notification failed")
		}
	}

	if refundErr != nil {
		return cancellation, refundErr
	}
	return cancellation, nil
}

func (s *CancellationService) processRefund(ctx context.Context, booking domain.Booking, c *domain.Cancellation) error {
	c.RefundStatus = domain.RefundStatusProcessing
	if err := s.repo.UpdateCancellation(ctx, *c); err != nil {
		return err
	}

	desc := fmt.Sprintf("refund for cancelled booking %s", booking.ID)
	if _, err := s.wallet.Credit(ctx, booking.UserID, c.RefundAmount, desc, booking.ID); err != nil {
		c.RefundStatus = domain.RefundStatusFailed
		if updErr := s.repo.UpdateCancellation(ctx, *c); updErr != nil {
			return fmt.Errorf("%w: %v (record update: %v)", domain.ErrRefundFailed, err, updErr)
		}
		metrics.RefundsFailed.Inc()
		return fmt.Errorf("%w: %v", domain.ErrRefundFailed, err)
	}

	processedAt := s.clock.Now()
	c.RefundStatus = domain.RefundStatusCompleted
	c.ProcessedAt = &processedAt
	return s.repo.UpdateCancellation(ctx, *c)
}

// CancellationForBooking returns the cancellation record of a booking.
func (s *CancellationService) CancellationForBooking(ctx context.Context, bookingID string) (domain.Cancellation, error) {
	return s.repo.GetCancellationByBooking(ctx, bookingID)
}

// CancellationFee applies the time-tiered policy against hours remaining
// before travel: >48h keeps 10%, >24h 25%, >12h 50%, otherwise 75%.
func CancellationFee(totalPrice int64, travelAt, now time.Time) int64 {
	remaining := travelAt.Sub(now)

	var pct int64
	switch {
	case remaining > 48*time.Hour:
		pct = 10
	case remaining > 24*time.Hour:
		pct = 25
	case remaining > 12*time.Hour:
		pct = 50
	default:
		pct = 75
	}
	return totalPrice * pct / 100
}
