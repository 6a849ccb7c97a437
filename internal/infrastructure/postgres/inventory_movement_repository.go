package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo diario de movimientos sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, transaction_id, item_id, location_id, type, quantity, reference, date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, m.ID, m.TransactionID, m.ItemID, m.LocationID, m.Type,
		m.Quantity, m.Reference, m.Date, m.CreatedBy)
	if err != nil {
		return storeErr("create inventory movement", err)
	}
	return nil
}

// List movimientos por fecha ascendente con los filtros indicados.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.LocationID != "" {
		add("location_id = $%d", f.LocationID)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}
	query := `SELECT id, transaction_id, item_id, location_id, type, quantity, reference, date, created_by FROM inventory_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY date, id LIMIT NULLIF($%d, 0) OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list inventory movements", err)
	}
	defer rows.Close()
	var out []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ItemID, &m.LocationID, &m.Type,
			&m.Quantity, &m.Reference, &m.Date, &m.CreatedBy); err != nil {
			return nil, storeErr("scan inventory movement", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list inventory movements", err)
	}
	return out, nil
}
