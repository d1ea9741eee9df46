package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type CancellationRepository struct {
	pool *pgxpool.Pool
}

func NewCancellationRepository(pool *pgxpool.Pool) *CancellationRepository {
	return &CancellationRepository{pool: pool}
}

func (r *CancellationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetBookingForUpdate locks the booking row; the status check against it is
// what keeps a double cancel from refunding twice.
func (r *CancellationRepository) GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error) {
	const q = `
SELECT id, user_id, inventory_kind, inventory_id, quantity, seat_ids, total_price, status, travel_at, created_at
FROM bookings
WHERE id = $1
FOR UPDATE`

	var b domain.Booking
	err := queryRow(ctx, r.pool, q, bookingID).Scan(
		&b.ID,
		&b.UserID,
		&b.InventoryKind,
		&b.InventoryID,
		&b.Quantity,
		&b.SeatIDs,
		&b.TotalPrice,
		&b.Status,
		&b.TravelAt,
		&b.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *CancellationRepository) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	const stmt = `UPDATE bookings SET status = $2 WHERE id = $1`

	tag, err := exec(ctx, r.pool, stmt, bookingID, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *CancellationRepository) IncrementAvailable(ctx context.Context, kind domain.InventoryKind, id string, quantity int) error {
	return incrementAvailable(ctx, r.pool, kind, id, quantity)
}

// DeleteSeatLocks removes the booking's seat claims outright so the seats are
// selectable again immediately.
func (r *CancellationRepository) DeleteSeatLocks(ctx context.Context, kind domain.InventoryKind, inventoryID string, seatIDs []string) error {
	const stmt = `
DELETE FROM seat_locks
WHERE inventory_kind = $1 AND inventory_id = $2 AND seat_id = ANY($3)`

	if _, err := exec(ctx, r.pool, stmt, kind, inventoryID, seatIDs); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete seat locks: %w", err)
	}
	return nil
}

func (r *CancellationRepository) CreateCancellation(ctx context.Context, c domain.Cancellation) error {
	const stmt = `
INSERT INTO cancellations (id, booking_id, reason, fee, refund_amount, refund_status, refund_processed_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := exec(ctx, r.pool, stmt,
		c.ID,
		c.BookingID,
		c.Reason,
		c.Fee,
		c.RefundAmount,
		c.RefundStatus,
		c.ProcessedAt,
		c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyCancelled
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create cancellation: %w", err)
	}
	return nil
}

func (r *CancellationRepository) UpdateCancellation(ctx context.Context, c domain.Cancellation) error {
	const stmt = `
UPDATE cancellations
SET refund_status = $2, refund_processed_at = $3
WHERE id = $1`

	tag, err := exec(ctx, r.pool, stmt, c.ID, c.RefundStatus, c.ProcessedAt)
	if err != nil {
		return fmt.Errorf("update cancellation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCancellationNotFound
	}
	return nil
}

func (r *CancellationRepository) GetCancellationByBooking(ctx context.Context, bookingID string) (domain.Cancellation, error) {
	const q = `
SELECT id, booking_id, reason, fee, refund_amount, refund_status, refund_processed_at, created_at
FROM cancellations
WHERE booking_id = $1`

	var c domain.Cancellation
	err := queryRow(ctx, r.pool, q, bookingID).Scan(
		&c.ID,
		&c.BookingID,
		&c.Reason,
		&c.Fee,
		&c.RefundAmount,
		&c.RefundStatus,
		&c.ProcessedAt,
		&c.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Cancellation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Cancellation{}, domain.ErrCancellationNotFound
		}
		return domain.Cancellation{}, fmt.Errorf("get cancellation: %w", err)
	}
	return c, nil
}
