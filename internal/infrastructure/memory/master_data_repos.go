package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*supplierRepo)(nil)
	_ repository.ClientRepository   = (*clientRepo)(nil)
	_ repository.ProjectRepository  = (*projectRepo)(nil)
)

type supplierRepo struct{ h *handle }

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.suppliers[s.ID]; ok {
		return fmt.Errorf("%w: proveedor %s", domain.ErrDuplicate, s.ID)
	}
	c := *s
	d.suppliers[s.ID] = &c
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	d, unlock := r.h.view()
	defer unlock()
	s, ok := d.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.suppliers[s.ID]; !ok {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, s.ID)
	}
	c := *s
	d.suppliers[s.ID] = &c
	return nil
}

func (r *supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	d, unlock := r.h.view()
	defer unlock()
	keys := sortedKeys(d.suppliers, func(a, b *entity.Supplier) bool { return a.Name < b.Name })
	from, to := page(len(keys), limit, offset)
	out := make([]*entity.Supplier, 0, to-from)
	for _, k := range keys[from:to] {
		c := *d.suppliers[k]
		out = append(out, &c)
	}
	return out, nil
}

func (r *supplierRepo) Delete(_ context.Context, id string) error {
	d, unlock := r.h.view()
	defer unlock()
	delete(d.suppliers, id)
	return nil
}

type clientRepo struct{ h *handle }

func (r *clientRepo) Create(_ context.Context, cl *entity.Client) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.clients[cl.ID]; ok {
		return fmt.Errorf("%w: cliente %s", domain.ErrDuplicate, cl.ID)
	}
	c := *cl
	d.clients[cl.ID] = &c
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	d, unlock := r.h.view()
	defer unlock()
	cl, ok := d.clients[id]
	if !ok {
		return nil, nil
	}
	c := *cl
	return &c, nil
}

func (r *clientRepo) Update(_ context.Context, cl *entity.Client) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.clients[cl.ID]; !ok {
		return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, cl.ID)
	}
	c := *cl
	d.clients[cl.ID] = &c
	return nil
}

func (r *clientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	d, unlock := r.h.view()
	defer unlock()
	keys := sortedKeys(d.clients, func(a, b *entity.Client) bool { return a.Name < b.Name })
	from, to := page(len(keys), limit, offset)
	out := make([]*entity.Client, 0, to-from)
	for _, k := range keys[from:to] {
		c := *d.clients[k]
		out = append(out, &c)
	}
	return out, nil
}

func (r *clientRepo) Delete(_ context.Context, id string) error {
	d, unlock := r.h.view()
	defer unlock()
	delete(d.clients, id)
	return nil
}

type projectRepo struct{ h *handle }

func (r *projectRepo) Create(_ context.Context, p *entity.Project) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.projects[p.ID]; ok {
		return fmt.Errorf("%w: proyecto %s", domain.ErrDuplicate, p.ID)
	}
	c := *p
	d.projects[p.ID] = &c
	return nil
}

func (r *projectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	d, unlock := r.h.view()
	defer unlock()
	p, ok := d.projects[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *projectRepo) Update(_ context.Context, p *entity.Project) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.projects[p.ID]; !ok {
		return fmt.Errorf("%w: proyecto %s", domain.ErrNotFound, p.ID)
	}
	c := *p
	d.projects[p.ID] = &c
	return nil
}

func (r *projectRepo) List(_ context.Context, clientID string, limit, offset int) ([]*entity.Project, error) {
	d, unlock := r.h.view()
	defer unlock()
	keys := sortedKeys(d.projects, func(a, b *entity.Project) bool { return a.Name < b.Name })
	var matched []string
	for _, k := range keys {
		if clientID == "" || d.projects[k].ClientID == clientID {
			matched = append(matched, k)
		}
	}
	from, to := page(len(matched), limit, offset)
	out := make([]*entity.Project, 0, to-from)
	for _, k := range matched[from:to] {
		c := *d.projects[k]
		out = append(out, &c)
	}
	return out, nil
}

func (r *projectRepo) Delete(_ context.Context, id string) error {
	d, unlock := r.h.view()
	defer unlock()
	delete(d.projects, id)
	return nil
}
