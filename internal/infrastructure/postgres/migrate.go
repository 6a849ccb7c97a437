package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

//go:embed schema.sql
var schema string

// Migrate aplica el esquema. Todas las sentencias son idempotentes.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

// NewStores repositorios atados a q (pool o tx).
func NewStores(q Querier) repository.Stores {
	return repository.Stores{
		Items:         NewItemRepository(q),
		Locations:     NewLocationRepository(q),
		Stock:         NewStockRepository(q),
		Movements:     NewInventoryMovementRepository(q),
		Orders:        NewPurchaseOrderRepository(q),
		DeliveryNotes: NewDeliveryNoteRepository(q),
		Counters:      NewCounterRepository(q),
		Suppliers:     NewSupplierRepository(q),
		Clients:       NewClientRepository(q),
		Projects:      NewProjectRepository(q),
	}
}
