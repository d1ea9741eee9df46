package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed purchase of some quantity of an inventory item,
// optionally bound to specific seat identifiers. TotalPrice is in minor
// currency units. TravelAt is the departure (or check-in) instant used for
// cancellation-fee tiers.
type Booking struct {
	ID            string
	UserID        string
	InventoryKind InventoryKind
	InventoryID   string
	Quantity      int
	SeatIDs       []string
	TotalPrice    int64
	Status        BookingStatus
	TravelAt      time.Time
	CreatedAt     time.Time
}
