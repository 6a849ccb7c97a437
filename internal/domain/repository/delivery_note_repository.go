package repository

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// DeliveryNoteRepository define el puerto de persistencia para notas de entrega.
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error)
	GetForUpdate(ctx context.Context, id string) (*entity.DeliveryNote, error)
	Update(ctx context.Context, note *entity.DeliveryNote) error
	List(ctx context.Context, projectID string, limit, offset int) ([]*entity.DeliveryNote, error)
}
