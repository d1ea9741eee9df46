package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *BookingRepository) GetInventoryItem(ctx context.Context, kind domain.InventoryKind, id string) (domain.InventoryItem, error) {
	return getInventoryItem(ctx, r.pool, kind, id)
}

func (r *BookingRepository) DecrementAvailable(ctx context.Context, kind domain.InventoryKind, id string, quantity int) error {
	return decrementAvailable(ctx, r.pool, kind, id, quantity)
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, user_id, inventory_kind, inventory_id, quantity, seat_ids, total_price, status, travel_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := exec(ctx, r.pool, stmt,
		booking.ID,
		booking.UserID,
		booking.InventoryKind,
		booking.InventoryID,
		booking.Quantity,
		booking.SeatIDs,
		booking.TotalPrice,
		booking.Status,
		booking.TravelAt,
		booking.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	const q = `
SELECT id, user_id, inventory_kind, inventory_id, quantity, seat_ids, total_price, status, travel_at, created_at
FROM bookings
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := query(ctx, r.pool, q, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
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
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}
