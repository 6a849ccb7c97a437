package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo existencias por (artículo, ubicación) sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `item_id, location_id, quantity, updated_at`

// Get obtiene el stock actual; sin registro devuelve cantidad cero.
func (r *StockRepo) Get(ctx context.Context, itemID, locationID string) (*entity.LocationStock, error) {
	return r.get(ctx, "get stock", `
		SELECT `+stockColumns+` FROM location_stock
		WHERE item_id = $1 AND location_id = $2`, itemID, locationID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.LocationStock, error) {
	return r.get(ctx, "get stock for update", `
		SELECT `+stockColumns+` FROM location_stock
		WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`, itemID, locationID)
}

func (r *StockRepo) get(ctx context.Context, op, query, itemID, locationID string) (*entity.LocationStock, error) {
	var s entity.LocationStock
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(&s.ItemID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LocationStock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, storeErr(op, err)
	}
	return &s, nil
}

// Increase suma qty en una sola sentencia; el CHECK de la tabla impide quedar en negativo.
func (r *StockRepo) Increase(ctx context.Context, itemID, locationID string, qty decimal.Decimal) error {
	query := `
		INSERT INTO location_stock (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = location_stock.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, itemID, locationID, qty); err != nil {
		return storeErr("increase stock", err)
	}
	return nil
}

// Save inserta o fija la cantidad en stock.
func (r *StockRepo) Save(ctx context.Context, s *entity.LocationStock) error {
	query := `
		INSERT INTO location_stock (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, s.ItemID, s.LocationID, s.Quantity); err != nil {
		return storeErr("save stock", err)
	}
	return nil
}

// Delete elimina el registro (artículo, ubicación).
func (r *StockRepo) Delete(ctx context.Context, itemID, locationID string) error {
	return r.exec(ctx, "delete stock", `DELETE FROM location_stock WHERE item_id = $1 AND location_id = $2`, itemID, locationID)
}

// DeleteByItem elimina todos los registros del artículo.
func (r *StockRepo) DeleteByItem(ctx context.Context, itemID string) error {
	return r.exec(ctx, "delete stock by item", `DELETE FROM location_stock WHERE item_id = $1`, itemID)
}

// DeleteByLocation elimina todos los registros de la ubicación.
func (r *StockRepo) DeleteByLocation(ctx context.Context, locationID string) error {
	return r.exec(ctx, "delete stock by location", `DELETE FROM location_stock WHERE location_id = $1`, locationID)
}

// ListByItem registros del artículo ordenados por ubicación.
func (r *StockRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.LocationStock, error) {
	return r.list(ctx, "list stock by item", `
		SELECT `+stockColumns+` FROM location_stock WHERE item_id = $1 ORDER BY location_id`, itemID)
}

// ListByLocation registros de la ubicación ordenados por artículo.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.LocationStock, error) {
	return r.list(ctx, "list stock by location", `
		SELECT `+stockColumns+` FROM location_stock WHERE location_id = $1 ORDER BY item_id`, locationID)
}

// ListAll todas las existencias.
func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.LocationStock, error) {
	return r.list(ctx, "list stock", `SELECT `+stockColumns+` FROM location_stock ORDER BY item_id, location_id`)
}

// HasPositiveStock indica si la ubicación tiene algún artículo con cantidad mayor a cero.
func (r *StockRepo) HasPositiveStock(ctx context.Context, locationID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM location_stock WHERE location_id = $1 AND quantity > 0)`, locationID).Scan(&exists)
	if err != nil {
		return false, storeErr("has positive stock", err)
	}
	return exists, nil
}

func (r *StockRepo) exec(ctx context.Context, op, query string, args ...any) error {
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return storeErr(op, err)
	}
	return nil
}

func (r *StockRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.LocationStock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()
	var out []*entity.LocationStock
	for rows.Next() {
		var s entity.LocationStock
		if err := rows.Scan(&s.ItemID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}
