package repository

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// OrderFilter filtros del modelo de lectura de órdenes. Campos vacíos no filtran.
type OrderFilter struct {
	Status     entity.OrderStatus
	SupplierID string
	ProjectID  string
	Limit      int
	Offset     int
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.PurchaseOrder, error)
	// Stream recorre las órdenes que cumplen el filtro sin cargarlas todas en memoria.
	// Si fn devuelve error se detiene y lo propaga.
	Stream(ctx context.Context, filter OrderFilter, fn func(*entity.PurchaseOrder) error) error
}
