package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)

// DeliveryNoteRepo notas de entrega sobre PostgreSQL; las líneas van en JSONB.
type DeliveryNoteRepo struct {
	q Querier
}

// NewDeliveryNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryNoteRepository(q Querier) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{q: q}
}

const noteColumns = `id, note_number, project_id, client_id, location_id, items, status, notes, created_by,
	created_at, delivered_at, updated_at`

func scanNote(row pgx.Row) (*entity.DeliveryNote, error) {
	var n entity.DeliveryNote
	if err := row.Scan(&n.ID, &n.NoteNumber, &n.ProjectID, &n.ClientID, &n.LocationID, &n.Items, &n.Status,
		&n.Notes, &n.CreatedBy, &n.CreatedAt, &n.DeliveredAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func noteItems(n *entity.DeliveryNote) []entity.DeliveryLine {
	if n.Items == nil {
		return []entity.DeliveryLine{}
	}
	return n.Items
}

// Create persiste la nota.
func (r *DeliveryNoteRepo) Create(ctx context.Context, n *entity.DeliveryNote) error {
	query := `INSERT INTO delivery_notes (` + noteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, n.ID, n.NoteNumber, n.ProjectID, n.ClientID, n.LocationID, noteItems(n),
		n.Status, n.Notes, n.CreatedBy, n.CreatedAt, n.DeliveredAt, n.UpdatedAt)
	if err != nil {
		return storeErr("insert delivery note", err)
	}
	return nil
}

// GetByID obtiene una nota; (nil, nil) si no existe.
func (r *DeliveryNoteRepo) GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	return r.get(ctx, "get delivery note", `SELECT `+noteColumns+` FROM delivery_notes WHERE id = $1`, id)
}

// GetForUpdate obtiene la nota y bloquea la fila.
func (r *DeliveryNoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	return r.get(ctx, "get delivery note for update", `SELECT `+noteColumns+` FROM delivery_notes WHERE id = $1 FOR UPDATE`, id)
}

func (r *DeliveryNoteRepo) get(ctx context.Context, op, query, id string) (*entity.DeliveryNote, error) {
	n, err := scanNote(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(op, err)
	}
	return n, nil
}

// Update actualiza estado, notas y fecha de entrega.
func (r *DeliveryNoteRepo) Update(ctx context.Context, n *entity.DeliveryNote) error {
	query := `UPDATE delivery_notes SET status = $2, notes = $3, delivered_at = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, n.ID, n.Status, n.Notes, n.DeliveredAt, n.UpdatedAt); err != nil {
		return storeErr("update delivery note", err)
	}
	return nil
}

// List notas más recientes primero, opcionalmente por proyecto.
func (r *DeliveryNoteRepo) List(ctx context.Context, projectID string, limit, offset int) ([]*entity.DeliveryNote, error) {
	query := `
		SELECT ` + noteColumns + ` FROM delivery_notes
		WHERE ($1 = '' OR project_id = $1)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($2, 0) OFFSET $3`
	rows, err := r.q.Query(ctx, query, projectID, limit, offset)
	if err != nil {
		return nil, storeErr("list delivery notes", err)
	}
	defer rows.Close()
	var out []*entity.DeliveryNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, storeErr("scan delivery note", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list delivery notes", err)
	}
	return out, nil
}
