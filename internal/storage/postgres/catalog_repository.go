package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	spec, err := specFor(item.Kind)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		`INSERT INTO %s (id, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		spec.table, spec.labelCol, spec.departCol, spec.totalCol, spec.availCol, spec.priceCol,
	)

	_, err = exec(ctx, r.pool, stmt,
		item.ID,
		item.Label,
		item.DepartsAt,
		item.TotalCapacity,
		item.Available,
		item.UnitPrice,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListInventoryItems(ctx context.Context, kind domain.InventoryKind) ([]domain.InventoryItem, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		`SELECT id, %s, %s, %s, %s, %s FROM %s ORDER BY %s`,
		spec.labelCol, spec.departCol, spec.totalCol, spec.availCol, spec.priceCol, spec.table, spec.departCol,
	)

	rows, err := query(ctx, r.pool, q)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item := domain.InventoryItem{Kind: kind}
		if err := rows.Scan(&item.ID, &item.Label, &item.DepartsAt, &item.TotalCapacity, &item.Available, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory items: %w", err)
	}
	return items, nil
}
