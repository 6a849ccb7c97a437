package repository

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
	Delete(ctx context.Context, id string) error
}

// ProjectRepository define el puerto de persistencia para proyectos.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	List(ctx context.Context, clientID string, limit, offset int) ([]*entity.Project, error)
	Delete(ctx context.Context, id string) error
}
