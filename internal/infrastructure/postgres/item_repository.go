package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*ItemRepo)(nil)

// ItemRepo catálogo de artículos sobre PostgreSQL. La receta de los kits va en una columna JSONB.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, unit, unit_cost, type, components, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	if err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.Unit, &it.UnitCost, &it.Type,
		&it.Components, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

func components(it *entity.InventoryItem) []entity.KitComponent {
	if it.Components == nil {
		return []entity.KitComponent{}
	}
	return it.Components
}

// Create persiste un artículo. Un SKU repetido es ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `INSERT INTO inventory_items (` + itemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, it.ID, it.SKU, it.Name, it.Unit, it.UnitCost, it.Type,
		components(it), it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return storeErr("insert item", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get item", err)
	}
	return it, nil
}

// GetBySKU obtiene un artículo por SKU; (nil, nil) si no existe.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get item by sku", err)
	}
	return it, nil
}

// Update actualiza nombre, unidad, costo y receta.
func (r *ItemRepo) Update(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $2, unit = $3, unit_cost = $4, components = $5, updated_at = $6
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, it.ID, it.Name, it.Unit, it.UnitCost, components(it), it.UpdatedAt); err != nil {
		return storeErr("update item", err)
	}
	return nil
}

// List artículos ordenados por SKU, opcionalmente por tipo.
func (r *ItemRepo) List(ctx context.Context, itemType string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE ($1 = '' OR type = $1)
		ORDER BY sku
		LIMIT NULLIF($2, 0) OFFSET $3`
	return r.list(ctx, "list items", query, itemType, limit, offset)
}

// ListCompositesUsing kits cuya receta contiene componentID.
func (r *ItemRepo) ListCompositesUsing(ctx context.Context, componentID string) ([]*entity.InventoryItem, error) {
	probe, err := json.Marshal([]map[string]string{{"componentItemId": componentID}})
	if err != nil {
		return nil, fmt.Errorf("componente %s: %w", componentID, err)
	}
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE type = 'composite' AND components @> $1::jsonb
		ORDER BY sku`
	return r.list(ctx, "list composites using", query, string(probe))
}

// Delete elimina el artículo.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id); err != nil {
		return storeErr("delete item", err)
	}
	return nil
}

func (r *ItemRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()
	var out []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}
