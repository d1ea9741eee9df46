package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/domain"
	"github.com/travelsmart/backend/services/booking/internal/testutil"
)

func TestCancellationRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewCancellationRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	seedBooking := func(t *testing.T, ctx context.Context) (bookingID, flightID, userID string) {
		flightID = testutil.InsertFlight(t, ctx, pool, "TS301", 10, 8, 4500)
		userID = testutil.NewUserID(t, ctx, pool)
		bookingID = testutil.InsertBooking(t, ctx, pool, domain.Booking{
			UserID:        userID,
			InventoryKind: domain.KindFlight,
			InventoryID:   flightID,
			Quantity:      2,
			SeatIDs:       []string{"12A", "12B"},
			TotalPrice:    9000,
			Status:        domain.BookingStatusConfirmed,
			TravelAt:      now.Add(50 * time.Hour),
		})
		return bookingID, flightID, userID
	}

	t.Run("GetBookingForUpdate", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		bookingID, _, userID := seedBooking(t, ctx)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			b, err := repo.GetBookingForUpdate(txCtx, bookingID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if b.UserID != userID || b.Quantity != 2 || len(b.SeatIDs) != 2 {
				t.Fatalf("unexpected booking: %+v", b)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		missingID := "00000000-0000-0000-0000-000000000001"
		if _, err := repo.GetBookingForUpdate(ctx, missingID); err != domain.ErrBookingNotFound {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
		if _, err := repo.GetBookingForUpdate(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("cancel flow restores capacity and deletes locks", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		bookingID, flightID, userID := seedBooking(t, ctx)

		for _, seat := range []string{"12A", "12B"} {
			testutil.InsertSeatLock(t, ctx, pool, domain.SeatLock{
				SeatID: seat, InventoryKind: domain.KindFlight, InventoryID: flightID,
				UserID: userID, SessionID: "sess-1", Status: domain.SeatLockStatusConsumed,
				LockedAt: now, ExpiresAt: now,
			})
		}

		if err := repo.IncrementAvailable(ctx, domain.KindFlight, flightID, 2); err != nil {
			t.Fatalf("increment: %v", err)
		}
		if err := repo.DeleteSeatLocks(ctx, domain.KindFlight, flightID, []string{"12A", "12B"}); err != nil {
			t.Fatalf("delete locks: %v", err)
		}
		if err := repo.UpdateBookingStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
			t.Fatalf("update status: %v", err)
		}

		var available int
		if err := pool.QueryRow(ctx, `SELECT available_seats FROM flights WHERE id = $1`, flightID).Scan(&available); err != nil {
			t.Fatalf("available: %v", err)
		}
		if available != 10 {
			t.Fatalf("expected 10 seats available, got %d", available)
		}

		var lockCount int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM seat_locks`).Scan(&lockCount); err != nil {
			t.Fatalf("count locks: %v", err)
		}
		if lockCount != 0 {
			t.Fatalf("expected locks deleted, got %d", lockCount)
		}
	})

	t.Run("one cancellation per booking", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		bookingID, _, _ := seedBooking(t, ctx)

		c := domain.Cancellation{
			ID:           "bbbb1111-2222-4333-8444-555566667777",
			BookingID:    bookingID,
			Reason:       "plans changed",
			Fee:          900,
			RefundAmount: 8100,
			RefundStatus: domain.RefundStatusPending,
			CreatedAt:    now,
		}
		if err := repo.CreateCancellation(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}

		dup := c
		dup.ID = "bbbb1111-7777-4888-8999-aaaabbbbcccc"
		if err := repo.CreateCancellation(ctx, dup); err != domain.ErrAlreadyCancelled {
			t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
		}

		processedAt := now
		c.RefundStatus = domain.RefundStatusCompleted
		c.ProcessedAt = &processedAt
		if err := repo.UpdateCancellation(ctx, c); err != nil {
			t.Fatalf("update: %v", err)
		}

		got, err := repo.GetCancellationByBooking(ctx, bookingID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.RefundStatus != domain.RefundStatusCompleted || got.ProcessedAt == nil {
			t.Fatalf("unexpected cancellation: %+v", got)
		}
		if got.Fee != 900 || got.RefundAmount != 8100 {
			t.Fatalf("unexpected amounts: %+v", got)
		}

		missingID := "00000000-0000-0000-0000-000000000001"
		if _, err := repo.GetCancellationByBooking(ctx, missingID); err != domain.ErrCancellationNotFound {
			t.Fatalf("expected ErrCancellationNotFound, got %v", err)
		}
	})
}
