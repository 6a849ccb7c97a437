package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones (bodegas, obras, vehículos) sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, name, type, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Type, l.Address, l.CreatedAt, l.UpdatedAt); err != nil {
		return storeErr("insert location", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT id, name, type, address, created_at, updated_at FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.Name, &l.Type, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get location", err)
	}
	return &l, nil
}

// Update actualiza una ubicación existente.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `UPDATE locations SET name = $2, type = $3, address = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Type, l.Address, l.UpdatedAt); err != nil {
		return storeErr("update location", err)
	}
	return nil
}

// List lista ubicaciones por nombre.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, name, type, address, created_at, updated_at
		FROM locations ORDER BY name LIMIT NULLIF($1, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, storeErr("list locations", err)
	}
	defer rows.Close()
	var out []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, storeErr("scan location", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list locations", err)
	}
	return out, nil
}

// Delete elimina la ubicación.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id); err != nil {
		return storeErr("delete location", err)
	}
	return nil
}
