package app

import (
	"context"
	"time"

	"github.com/travelsmart/backend/services/booking/internal/clock"
	"github.com/travelsmart/backend/services/booking/internal/domain"
)

type CatalogRepository interface {
	CreateInventoryItem(ctx context.Context, item domain.InventoryItem) error
	ListInventoryItems(ctx context.Context, kind domain.InventoryKind) ([]domain.InventoryItem, error)
}

// CatalogService is the administrative entry point for inventory items. Items
// start with available capacity equal to total capacity; afterwards only the
// booking and cancellation orchestrators may move the counter.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

type CreateItemInput struct {
	Kind      domain.InventoryKind
	Label     string
	Capacity  int
	UnitPrice int64
	DepartsAt *time.Time
}

func (s *CatalogService) CreateItem(ctx context.Context, in CreateItemInput) (domain.InventoryItem, error) {
	if _, err := domain.ParseInventoryKind(string(in.Kind)); err != nil {
		return domain.InventoryItem{}, err
	}
	if in.Label == "" {
		return domain.InventoryItem{}, domain.ErrLabelRequired
	}
	if in.Capacity <= 0 {
		return domain.InventoryItem{}, domain.ErrInvalidQuantity
	}

	departsAt := s.clock.Now().Add(24 * time.Hour)
	if in.DepartsAt != nil {
		departsAt = *in.DepartsAt
	}

	item := domain.InventoryItem{
		ID:            newID(),
		Kind:          in.Kind,
		Label:         in.Label,
		TotalCapacity: in.Capacity,
		Available:     in.Capacity,
		UnitPrice:     in.UnitPrice,
		DepartsAt:     departsAt,
	}
	if err := s.repo.CreateInventoryItem(ctx, item); err != nil {
		return domain.InventoryItem{}, err
	}
	return item, nil
}

func (s *CatalogService) ListItems(ctx context.Context, kind domain.InventoryKind) ([]domain.InventoryItem, error) {
	if _, err := domain.ParseInventoryKind(string(kind)); err != nil {
		return nil, err
	}
	return s.repo.ListInventoryItems(ctx, kind)
}
