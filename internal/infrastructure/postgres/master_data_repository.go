package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.ProjectRepository  = (*ProjectRepo)(nil)
)

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct{ q Querier }

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo { return &SupplierRepo{q: q} }

const supplierColumns = `id, name, tax_id, email, phone, contact_name, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.ContactName, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `INSERT INTO suppliers (` + supplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name, s.TaxID, s.Email, s.Phone, s.ContactName, s.CreatedAt, s.UpdatedAt); err != nil {
		return storeErr("insert supplier", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get supplier", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `UPDATE suppliers SET name = $2, tax_id = $3, email = $4, phone = $5, contact_name = $6, updated_at = $7 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name, s.TaxID, s.Email, s.Phone, s.ContactName, s.UpdatedAt); err != nil {
		return storeErr("update supplier", err)
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	return collect(ctx, r.q, "list suppliers", scanSupplier,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY name LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id); err != nil {
		return storeErr("delete supplier", err)
	}
	return nil
}

// ClientRepo clientes sobre PostgreSQL.
type ClientRepo struct{ q Querier }

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo { return &ClientRepo{q: q} }

const clientColumns = `id, name, tax_id, email, phone, address, created_at, updated_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt); err != nil {
		return storeErr("insert client", err)
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get client", err)
	}
	return c, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `UPDATE clients SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6, updated_at = $7 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.Address, c.UpdatedAt); err != nil {
		return storeErr("update client", err)
	}
	return nil
}

func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	return collect(ctx, r.q, "list clients", scanClient,
		`SELECT `+clientColumns+` FROM clients ORDER BY name LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		return storeErr("delete client", err)
	}
	return nil
}

// ProjectRepo proyectos sobre PostgreSQL.
type ProjectRepo struct{ q Querier }

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo { return &ProjectRepo{q: q} }

const projectColumns = `id, name, client_id, address, status, created_at, updated_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	if err := row.Scan(&p.ID, &p.Name, &p.ClientID, &p.Address, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.Name, p.ClientID, p.Address, p.Status, p.CreatedAt, p.UpdatedAt); err != nil {
		return storeErr("insert project", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get project", err)
	}
	return p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	query := `UPDATE projects SET name = $2, client_id = $3, address = $4, status = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, p.ID, p.Name, p.ClientID, p.Address, p.Status, p.UpdatedAt); err != nil {
		return storeErr("update project", err)
	}
	return nil
}

func (r *ProjectRepo) List(ctx context.Context, clientID string, limit, offset int) ([]*entity.Project, error) {
	return collect(ctx, r.q, "list projects", scanProject, `
		SELECT `+projectColumns+` FROM projects
		WHERE ($1 = '' OR client_id = $1)
		ORDER BY name LIMIT NULLIF($2, 0) OFFSET $3`, clientID, limit, offset)
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return storeErr("delete project", err)
	}
	return nil
}

// collect ejecuta query y escanea cada fila con scan.
func collect[T any](ctx context.Context, q Querier, op string, scan func(pgx.Row) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()
	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}
