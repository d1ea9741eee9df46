package domain

import "time"

type SeatLockStatus string

const (
	SeatLockStatusHeld     SeatLockStatus = "held"
	SeatLockStatusExpired  SeatLockStatus = "expired"
	SeatLockStatusConsumed SeatLockStatus = "consumed"
)

// SeatLock is a time-bounded claim on one seat or room identifier within an
// inventory item, owned by a (user, session) pair. It is advisory with respect
// to the item's capacity counter: holding a seat does not decrement capacity.
type SeatLock struct {
	ID            string
	SeatID        string
	InventoryKind InventoryKind
	InventoryID   string
	UserID        string
	SessionID     string
	Price         int64
	Status        SeatLockStatus
	LockedAt      time.Time
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// Expired reports whether the lock's hold window has elapsed at the given
// instant, regardless of whether the sweeper has demoted the row yet.
func (l SeatLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// OwnedBy reports whether the lock belongs to the given holder.
func (l SeatLock) OwnedBy(userID, sessionID string) bool {
	return l.UserID == userID && l.SessionID == sessionID
}
