package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type SeatLockRepository struct {
	pool *pgxpool.Pool
}

func NewSeatLockRepository(pool *pgxpool.Pool) *SeatLockRepository {
	return &SeatLockRepository{pool: pool}
}

func (r *SeatLockRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const seatLockColumns = `id, seat_id, inventory_kind, inventory_id, user_id, session_id, price, status, locked_at, expires_at, created_at`

// GetSeatLockForUpdate returns the live claim (held or consumed) on a seat,
// locking the row so concurrent acquires on the same seat serialize.
func (r *SeatLockRepository) GetSeatLockForUpdate(ctx context.Context, kind domain.InventoryKind, inventoryID, seatID string) (*domain.SeatLock, error) {
	q := `
SELECT ` + seatLockColumns + `
FROM seat_locks
WHERE inventory_kind = $1 AND inventory_id = $2 AND seat_id = $3 AND status IN ('held', 'consumed')
ORDER BY created_at DESC
LIMIT 1
FOR UPDATE`

	lock, err := scanSeatLock(queryRow(ctx, r.pool, q, kind, inventoryID, seatID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get seat lock: %w", err)
	}
	return &lock, nil
}

func (r *SeatLockRepository) CreateSeatLock(ctx context.Context, lock domain.SeatLock) error {
	const stmt = `
INSERT INTO seat_locks (` + seatLockColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := exec(ctx, r.pool, stmt,
		lock.ID,
		lock.SeatID,
		lock.InventoryKind,
		lock.InventoryID,
		lock.UserID,
		lock.SessionID,
		lock.Price,
		lock.Status,
		lock.LockedAt,
		lock.ExpiresAt,
		lock.CreatedAt,
	)
	if err != nil {
		// A concurrent holder won the insert race on this seat.
		if isUniqueViolation(err) {
			return domain.ErrSeatAlreadyLocked
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create seat lock: %w", err)
	}
	return nil
}

func (r *SeatLockRepository) UpdateSeatLock(ctx context.Context, lock domain.SeatLock) error {
	const stmt = `
UPDATE seat_locks
SET user_id = $2, session_id = $3, price = $4, status = $5, locked_at = $6, expires_at = $7
WHERE id = $1`

	tag, err := exec(ctx, r.pool, stmt,
		lock.ID,
		lock.UserID,
		lock.SessionID,
		lock.Price,
		lock.Status,
		lock.LockedAt,
		lock.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("update seat lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSeatAlreadyLocked
	}
	return nil
}

// ReleaseSeatLock expires a live hold owned by the holder; anything else is a
// no-op, matching the advisory nature of release.
func (r *SeatLockRepository) ReleaseSeatLock(ctx context.Context, kind domain.InventoryKind, inventoryID, seatID, userID, sessionID string, now time.Time) error {
	const stmt = `
UPDATE seat_locks
SET status = 'expired'
WHERE inventory_kind = $1 AND inventory_id = $2 AND seat_id = $3
  AND user_id = $4 AND session_id = $5
  AND status = 'held' AND expires_at > $6`

	if _, err := exec(ctx, r.pool, stmt, kind, inventoryID, seatID, userID, sessionID, now); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("release seat lock: %w", err)
	}
	return nil
}

func (r *SeatLockRepository) ReleaseSessionLocks(ctx context.Context, userID, sessionID string) (int64, error) {
	const stmt = `
UPDATE seat_locks
SET status = 'expired'
WHERE user_id = $1 AND session_id = $2 AND status = 'held'`

	tag, err := exec(ctx, r.pool, stmt, userID, sessionID)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("release session locks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SeatLockRepository) ConsumeSessionLocks(ctx context.Context, userID, sessionID string) (int64, error) {
	const stmt = `
UPDATE seat_locks
SET status = 'consumed'
WHERE user_id = $1 AND session_id = $2 AND status = 'held'`

	tag, err := exec(ctx, r.pool, stmt, userID, sessionID)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("consume session locks: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListUnavailableSeats returns consumed seats plus holds still inside their
// window; held rows past expiry are excluded even before the sweeper runs.
func (r *SeatLockRepository) ListUnavailableSeats(ctx context.Context, kind domain.InventoryKind, inventoryID string, now time.Time) ([]domain.SeatLock, error) {
	q := `
SELECT ` + seatLockColumns + `
FROM seat_locks
WHERE inventory_kind = $1 AND inventory_id = $2
  AND (status = 'consumed' OR (status = 'held' AND expires_at > $3))
ORDER BY seat_id`

	rows, err := query(ctx, r.pool, q, kind, inventoryID, now)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list unavailable seats: %w", err)
	}
	return collectSeatLocks(rows)
}

func (r *SeatLockRepository) ListUserActiveLocks(ctx context.Context, userID, sessionID string, now time.Time) ([]domain.SeatLock, error) {
	q := `
SELECT ` + seatLockColumns + `
FROM seat_locks
WHERE user_id = $1 AND session_id = $2 AND status = 'held' AND expires_at > $3
ORDER BY expires_at`

	rows, err := query(ctx, r.pool, q, userID, sessionID, now)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list user locks: %w", err)
	}
	return collectSeatLocks(rows)
}

func (r *SeatLockRepository) ExpireStaleLocks(ctx context.Context, now time.Time) (int64, error) {
	const stmt = `UPDATE seat_locks SET status = 'expired' WHERE status = 'held' AND expires_at <= $1`

	tag, err := exec(ctx, r.pool, stmt, now)
	if err != nil {
		return 0, fmt.Errorf("expire stale locks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SeatLockRepository) DeleteExpiredLocksBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const stmt = `DELETE FROM seat_locks WHERE status = 'expired' AND expires_at < $1`

	tag, err := exec(ctx, r.pool, stmt, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired locks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSeatLock(row pgx.Row) (domain.SeatLock, error) {
	var l domain.SeatLock
	err := row.Scan(
		&l.ID,
		&l.SeatID,
		&l.InventoryKind,
		&l.InventoryID,
		&l.UserID,
		&l.SessionID,
		&l.Price,
		&l.Status,
		&l.LockedAt,
		&l.ExpiresAt,
		&l.CreatedAt,
	)
	return l, err
}

func collectSeatLocks(rows pgx.Rows) ([]domain.SeatLock, error) {
	defer rows.Close()

	var locks []domain.SeatLock
	for rows.Next() {
		l, err := scanSeatLock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seat lock: %w", err)
		}
		locks = append(locks, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seat locks: %w", err)
	}
	return locks, nil
}
