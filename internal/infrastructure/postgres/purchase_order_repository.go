package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL. Líneas, historial y backorders se
// guardan como JSONB en la misma fila: la orden se lee y escribe como un documento.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `id, order_number, supplier_id, supplier_name, project_id, project_name, items, total,
	status, status_history, rejection_reason, original_order_id, backorder_ids, order_date,
	estimated_delivery_date, notes, created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := row.Scan(&o.ID, &o.OrderNumber, &o.SupplierID, &o.SupplierName, &o.ProjectID, &o.ProjectName,
		&o.Items, &o.Total, &o.Status, &o.StatusHistory, &o.RejectionReason, &o.OriginalOrderID,
		&o.BackorderIDs, &o.OrderDate, &o.EstimatedDeliveryDate, &o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func orderDocs(o *entity.PurchaseOrder) (items, history, backorders any) {
	items, history, backorders = o.Items, o.StatusHistory, o.BackorderIDs
	if o.Items == nil {
		items = []entity.OrderLine{}
	}
	if o.StatusHistory == nil {
		history = []entity.StatusHistoryEntry{}
	}
	if o.BackorderIDs == nil {
		backorders = []string{}
	}
	return items, history, backorders
}

// Create persiste la orden. Un número repetido es ErrDuplicate.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	items, history, backorders := orderDocs(o)
	query := `INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query, o.ID, o.OrderNumber, o.SupplierID, o.SupplierName, o.ProjectID, o.ProjectName,
		items, o.Total, o.Status, history, o.RejectionReason, o.OriginalOrderID, backorders, o.OrderDate,
		o.EstimatedDeliveryDate, o.Notes, o.CreatedBy, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return storeErr("insert purchase order", err)
	}
	return nil
}

// GetByID obtiene una orden; (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, "get purchase order", `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden y bloquea la fila hasta el fin de la transacción.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, "get purchase order for update", `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, op, query, id string) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(op, err)
	}
	return o, nil
}

// Update reescribe la orden completa. El número y la fecha de creación no cambian.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	items, history, backorders := orderDocs(o)
	query := `
		UPDATE purchase_orders SET
			supplier_id = $2, supplier_name = $3, project_id = $4, project_name = $5, items = $6, total = $7,
			status = $8, status_history = $9, rejection_reason = $10, original_order_id = $11,
			backorder_ids = $12, order_date = $13, estimated_delivery_date = $14, notes = $15, updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, o.ID, o.SupplierID, o.SupplierName, o.ProjectID, o.ProjectName, items, o.Total,
		o.Status, history, o.RejectionReason, o.OriginalOrderID, backorders, o.OrderDate,
		o.EstimatedDeliveryDate, o.Notes, o.UpdatedAt)
	if err != nil {
		return storeErr("update purchase order", err)
	}
	return nil
}

// Delete elimina la orden.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id); err != nil {
		return storeErr("delete purchase order", err)
	}
	return nil
}

// List órdenes más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.Stream(ctx, f, func(o *entity.PurchaseOrder) error {
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stream recorre el cursor fila por fila; si fn devuelve error se detiene y lo propaga tal cual.
func (r *PurchaseOrderRepo) Stream(ctx context.Context, f repository.OrderFilter, fn func(*entity.PurchaseOrder) error) error {
	query := `
		SELECT ` + orderColumns + ` FROM purchase_orders
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR supplier_id = $2)
		  AND ($3 = '' OR project_id = $3)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($4, 0) OFFSET $5`
	rows, err := r.q.Query(ctx, query, string(f.Status), f.SupplierID, f.ProjectID, f.Limit, f.Offset)
	if err != nil {
		return storeErr("list purchase orders", err)
	}
	defer rows.Close()
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return storeErr("scan purchase order", err)
		}
		if err := fn(o); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return storeErr("list purchase orders", err)
	}
	return nil
}

