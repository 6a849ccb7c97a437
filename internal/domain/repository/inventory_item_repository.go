package repository

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia para el catálogo (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context, itemType string, limit, offset int) ([]*entity.InventoryItem, error)
	// ListCompositesUsing devuelve los kits que usan componentID en su receta.
	ListCompositesUsing(ctx context.Context, componentID string) ([]*entity.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}
