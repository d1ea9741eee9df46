package notify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// LogNotifier stands in for the ticket/email collaborator: it records the
// handoff payload in the service log. The real dispatcher is owned by another
// service and consumes the same fields.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) BookingConfirmed(_ context.Context, booking domain.Booking) error {
	n.log.Info().
		Str("booking_id", booking.ID).
		Str("user_id", booking.UserID).
		Str("kind", string(booking.InventoryKind)).
		Int("quantity", booking.Quantity).
		Int64("total_price", booking.TotalPrice).
		Msg("booking confirmed")
	return nil
}

func (n *LogNotifier) BookingCancelled(_ context.Context, booking domain.Booking, c domain.Cancellation) error {
	n.log.Info().
		Str("booking_id", booking.ID).
		Str("user_id", booking.UserID).
		Str("cancellation_id", c.ID).
		Int64("refund_amount", c.RefundAmount).
		Str("refund_status", string(c.RefundStatus)).
		Msg("booking cancelled")
	return nil
}
