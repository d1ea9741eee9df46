package domain

import "time"

type InventoryKind string

const (
	KindFlight InventoryKind = "flight"
	KindBus    InventoryKind = "bus"
	KindTrain  InventoryKind = "train"
	KindHotel  InventoryKind = "hotel"
)

// ParseInventoryKind validates a kind discriminator coming from a request.
func ParseInventoryKind(s string) (InventoryKind, error) {
	switch InventoryKind(s) {
	case KindFlight, KindBus, KindTrain, KindHotel:
		return InventoryKind(s), nil
	}
	return "", ErrInvalidKind
}

// InventoryItem is the uniform view over the four kind tables. Label carries
// the kind-specific display field (flight number, bus number, hotel name) and
// UnitPrice is in minor currency units.
type InventoryItem struct {
	ID            string
	Kind          InventoryKind
	Label         string
	TotalCapacity int
	Available     int
	UnitPrice     int64
	DepartsAt     time.Time
}
