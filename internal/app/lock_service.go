package app

import (
	"context"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/domain"
	"github.com/travelsmart/backend/services/booking/internal/metrics"
)

type SeatLockRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetSeatLockForUpdate(ctx context.Context, kind domain.InventoryKind, inventoryID, seatID string) (*domain.SeatLock, error)
	CreateSeatLock(ctx context.Context, lock domain.SeatLock) error
	UpdateSeatLock(ctx context.Context, lock domain.SeatLock) error
	ReleaseSeatLock(ctx context.Context, kind domain.InventoryKind, inventoryID, seatID, userID, sessionID string, now time.Time) error
	ReleaseSessionLocks(ctx context.Context, userID, sessionID string) (int64, error)
	ConsumeSessionLocks(ctx context.Context, userID, sessionID string) (int64, error)
	ListUnavailableSeats(ctx context.Context, kind domain.InventoryKind, inventoryID string, now time.Time) ([]domain.SeatLock, error)
	ListUserActiveLocks(ctx context.Context, userID, sessionID string, now time.Time) ([]domain.SeatLock, error)
}

// LockService is the reservation ledger: short-lived advisory holds on seat
// identifiers. Holds never touch the inventory capacity counter; that stays
// with the booking orchestrator.
type LockService struct {
	repo    SeatLockRepository
	clock   clock.Clock
	holdTTL time.Duration
}

const defaultHoldTTL = 10 * time.Minute

func NewLockService(repo SeatLockRepository, clk clock.Clock, opts ...LockServiceOption) *LockService {
	svc := &LockService{
		repo:    repo,
		clock:   clk,
		holdTTL: defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type LockServiceOption func(*LockService)

// WithHoldTTL overrides the default hold window for new locks.
func WithHoldTTL(d time.Duration) LockServiceOption {
	return func(s *LockService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

type AcquireSeatInput struct {
	SeatID        string
	InventoryKind domain.InventoryKind
	InventoryID   string
	UserID        string
	SessionID     string
	Price         int64
}

// AcquireSeat places or renews a hold on one seat. Renewal by the same
// (user, session) holder extends the expiry; an unexpired hold by anyone else
// fails with ErrSeatAlreadyLocked, a consumed lock with ErrSeatAlreadyBooked.
// Expiry is honored here directly, so a stale hold never blocks a new holder
// even before the sweeper has run.
func (s *LockService) AcquireSeat(ctx context.Context, in AcquireSeatInput) (domain.SeatLock, error) {
	if in.SeatID == "" {
		return domain.SeatLock{}, domain.ErrSeatIDRequired
	}

	var result domain.SeatLock
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		lock, err := s.acquireLocked(txCtx, in)
		if err != nil {
			return err
		}
		result = lock
		return nil
	})
	if err != nil {
		if err == domain.ErrSeatAlreadyLocked || err == domain.ErrSeatAlreadyBooked {
			metrics.HoldConflicts.Inc()
		}
		return domain.SeatLock{}, err
	}
	metrics.HoldsAcquired.Inc()
	return result, nil
}

// AcquireSeats holds a batch of seats all-or-nothing: the first failure rolls
// back every hold taken so far and is returned to the caller.
func (s *LockService) AcquireSeats(ctx context.Context, ins []AcquireSeatInput) ([]domain.SeatLock, error) {
	locks := make([]domain.SeatLock, 0, len(ins))
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		for _, in := range ins {
			if in.SeatID == "" {
				return domain.ErrSeatIDRequired
			}
			lock, err := s.acquireLocked(txCtx, in)
			if err != nil {
				return err
			}
			locks = append(locks, lock)
		}
		return nil
	})
	if err != nil {
		if err == domain.ErrSeatAlreadyLocked || err == domain.ErrSeatAlreadyBooked {
			metrics.HoldConflicts.Inc()
		}
		return nil, err
	}
	for range locks {
		metrics.HoldsAcquired.Inc()
	}
	return locks, nil
}

// acquireLocked runs inside a transaction; the row lock taken by
// GetSeatLockForUpdate serializes concurrent acquires on the same seat.
func (s *LockService) acquireLocked(ctx context.Context, in AcquireSeatInput) (domain.SeatLock, error) {
	now := s.clock.Now()

	existing, err := s.repo.GetSeatLockForUpdate(ctx, in.InventoryKind, in.InventoryID, in.SeatID)
	if err != nil {
		return domain.SeatLock{}, err
	}

	if existing != nil {
		switch {
		case existing.Status == domain.SeatLockStatusConsumed:
			return domain.SeatLock{}, domain.ErrSeatAlreadyBooked

		case existing.OwnedBy(in.UserID, in.SessionID):
			existing.ExpiresAt = now.Add(s.holdTTL)
			if err := s.repo.UpdateSeatLock(ctx, *existing); err != nil {
				return domain.SeatLock{}, err
			}
			return *existing, nil

		case !existing.Expired(now):
			return domain.SeatLock{}, domain.ErrSeatAlreadyLocked

		default:
			// Expired hold by another holder: take the row over.
			existing.UserID = in.UserID
			existing.SessionID = in.SessionID
			existing.Price = in.Price
			existing.Status = domain.SeatLockStatusHeld
			existing.LockedAt = now
			existing.ExpiresAt = now.Add(s.holdTTL)
			if err := s.repo.UpdateSeatLock(ctx, *existing); err != nil {
				return domain.SeatLock{}, err
			}
			return *existing, nil
		}
	}

	lock := domain.SeatLock{
		ID:            newID(),
		SeatID:        in.SeatID,
		InventoryKind: in.InventoryKind,
		InventoryID:   in.InventoryID,
		UserID:        in.UserID,
		SessionID:     in.SessionID,
		Price:         in.Price,
		Status:        domain.SeatLockStatusHeld,
		LockedAt:      now,
		ExpiresAt:     now.Add(s.holdTTL),
		CreatedAt:     now,
	}
	if err := s.repo.CreateSeatLock(ctx, lock); err != nil {
		return domain.SeatLock{}, err
	}
	return lock, nil
}

// ReleaseSeat gives up a hold owned by the caller. Missing rows, expired rows
// and rows owned by someone else are all silent no-ops.
func (s *LockService) ReleaseSeat(ctx context.Context, kind domain.InventoryKind, inventoryID, seatID, userID, sessionID string) error {
	if seatID == "" {
		return domain.ErrSeatIDRequired
	}
	return s.repo.ReleaseSeatLock(ctx, kind, inventoryID, seatID, userID, sessionID, s.clock.Now())
}

// ReleaseSession expires every hold owned by the (user, session) pair and
// returns the count affected. Used when a user abandons checkout.
func (s *LockService) ReleaseSession(ctx context.Context, userID, sessionID string) (int64, error) {
	return s.repo.ReleaseSessionLocks(ctx, userID, sessionID)
}

// ConsumeSession promotes every held seat of the session to consumed. Called
// once after payment success, before the booking record is written; from here
// the seats are permanent claims.
func (s *LockService) ConsumeSession(ctx context.Context, userID, sessionID string) (int64, error) {
	return s.repo.ConsumeSessionLocks(ctx, userID, sessionID)
}

// UnavailableSeats returns the seat identifiers that must not be offered as
// selectable: live holds plus consumed seats.
func (s *LockService) UnavailableSeats(ctx context.Context, kind domain.InventoryKind, inventoryID string) ([]string, error) {
	locks, err := s.repo.ListUnavailableSeats(ctx, kind, inventoryID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	seats := make([]string, 0, len(locks))
	for _, l := range locks {
		seats = append(seats, l.SeatID)
	}
	return seats, nil
}

// UserActiveLocks lists the caller's live holds, e.g. to show time remaining
// during checkout.
func (s *LockService) UserActiveLocks(ctx context.Context, userID, sessionID string) ([]domain.SeatLock, error) {
	return s.repo.ListUserActiveLocks(ctx, userID, sessionID, s.clock.Now())
}
