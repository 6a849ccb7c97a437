package repository

import (
	"context"
	"time"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// MovementFilter filtros del diario de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ItemID     string
	LocationID string
	From, To   *time.Time
	Limit      int
	Offset     int
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
}
