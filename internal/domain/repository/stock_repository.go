package repository

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRepository define el puerto para consultar/actualizar stock por artículo+ubicación.
// Get y GetForUpdate devuelven un registro en cero (no nil) si no existe.
type StockRepository interface {
	Get(ctx context.Context, itemID, locationID string) (*entity.LocationStock, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.LocationStock, error)
	// Increase suma qty de forma atómica, creando el registro si no existe.
	Increase(ctx context.Context, itemID, locationID string, qty decimal.Decimal) error
	// Save fija la cantidad (insert o update).
	Save(ctx context.Context, stock *entity.LocationStock) error
	Delete(ctx context.Context, itemID, locationID string) error
	DeleteByItem(ctx context.Context, itemID string) error
	DeleteByLocation(ctx context.Context, locationID string) error
	ListByItem(ctx context.Context, itemID string) ([]*entity.LocationStock, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.LocationStock, error)
	ListAll(ctx context.Context) ([]*entity.LocationStock, error)
	HasPositiveStock(ctx context.Context, locationID string) (bool, error)
}
