package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

// kindSpec maps an inventory kind to its table and kind-specific column
// names, so capacity handling stays a single code path across the four kinds.
type kindSpec struct {
	table     string
	labelCol  string
	departCol string
	totalCol  string
	availCol  string
	priceCol  string
}

var kindSpecs = map[domain.InventoryKind]kindSpec{
	domain.KindFlight: {"flights", "flight_number", "departs_at", "total_seats", "available_seats", "price"},
	domain.KindBus:    {"buses", "bus_number", "departs_at", "total_seats", "available_seats", "price"},
	domain.KindTrain:  {"trains", "train_number", "departs_at", "total_seats", "available_seats", "price"},
	domain.KindHotel:  {"hotels", "name", "check_in", "total_rooms", "available_rooms", "nightly_rate"},
}

func specFor(kind domain.InventoryKind) (kindSpec, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return kindSpec{}, domain.ErrInvalidKind
	}
	return spec, nil
}

func getInventoryItem(ctx context.Context, pool *pgxpool.Pool, kind domain.InventoryKind, id string) (domain.InventoryItem, error) {
	spec, err := specFor(kind)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	q := fmt.Sprintf(
		`SELECT id, %s, %s, %s, %s, %s FROM %s WHERE id = $1`,
		spec.labelCol, spec.departCol, spec.totalCol, spec.availCol, spec.priceCol, spec.table,
	)

	item := domain.InventoryItem{Kind: kind}
	err = queryRow(ctx, pool, q, id).
		Scan(&item.ID, &item.Label, &item.DepartsAt, &item.TotalCapacity, &item.Available, &item.UnitPrice)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.InventoryItem{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.InventoryItem{}, domain.ErrItemNotFound
		}
		return domain.InventoryItem{}, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// decrementAvailable re-checks capacity in the update itself; a concurrent
// booking that drained the counter first leaves zero rows affected.
func decrementAvailable(ctx context.Context, pool *pgxpool.Pool, kind domain.InventoryKind, id string, quantity int) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		`UPDATE %s SET %s = %s - $2 WHERE id = $1 AND %s >= $2`,
		spec.table, spec.availCol, spec.availCol, spec.availCol,
	)

	tag, err := exec(ctx, pool, stmt, id, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("decrement available: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientInventory
	}
	return nil
}

func incrementAvailable(ctx context.Context, pool *pgxpool.Pool, kind domain.InventoryKind, id string, quantity int) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		`UPDATE %s SET %s = %s + $2 WHERE id = $1`,
		spec.table, spec.availCol, spec.availCol,
	)

	tag, err := exec(ctx, pool, stmt, id, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("increment available: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
