package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*orderRepo)(nil)
	_ repository.DeliveryNoteRepository  = (*noteRepo)(nil)
	_ repository.CounterRepository       = (*counterRepo)(nil)
)

type orderRepo struct{ h *handle }

func (r *orderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.orders[o.ID]; ok {
		return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, o.ID)
	}
	for _, existing := range d.orders {
		if existing.OrderNumber == o.OrderNumber {
			return fmt.Errorf("%w: número de orden %s", domain.ErrDuplicate, o.OrderNumber)
		}
	}
	d.orders[o.ID] = o.Clone()
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	d, unlock := r.h.view()
	defer unlock()
	return d.orders[id].Clone(), nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.orders[o.ID]; !ok {
		return fmt.Errorf("%w: orden %s", domain.ErrNotFound, o.ID)
	}
	d.orders[o.ID] = o.Clone()
	return nil
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	d, unlock := r.h.view()
	defer unlock()
	delete(d.orders, id)
	return nil
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	d, unlock := r.h.view()
	defer unlock()
	matched := matchOrders(d, f)
	from, to := page(len(matched), f.Limit, f.Offset)
	return matched[from:to], nil
}

// Stream toma una foto del resultado y llama fn sin retener el mutex.
func (r *orderRepo) Stream(ctx context.Context, f repository.OrderFilter, fn func(*entity.PurchaseOrder) error) error {
	list, err := r.List(ctx, f)
	if err != nil {
		return err
	}
	for _, o := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}
	}
	return nil
}

// matchOrders órdenes más recientes primero, ya clonadas.
func matchOrders(d *dataset, f repository.OrderFilter) []*entity.PurchaseOrder {
	keys := sortedKeys(d.orders, func(a, b *entity.PurchaseOrder) bool { return a.CreatedAt.After(b.CreatedAt) })
	out := make([]*entity.PurchaseOrder, 0, len(keys))
	for _, k := range keys {
		o := d.orders[k]
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.SupplierID != "" && o.SupplierID != f.SupplierID {
			continue
		}
		if f.ProjectID != "" && o.ProjectID != f.ProjectID {
			continue
		}
		out = append(out, o.Clone())
	}
	return out
}

type noteRepo struct{ h *handle }

func (r *noteRepo) Create(_ context.Context, n *entity.DeliveryNote) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.notes[n.ID]; ok {
		return fmt.Errorf("%w: nota de entrega %s", domain.ErrDuplicate, n.ID)
	}
	d.notes[n.ID] = cloneNote(n)
	return nil
}

func (r *noteRepo) GetByID(_ context.Context, id string) (*entity.DeliveryNote, error) {
	d, unlock := r.h.view()
	defer unlock()
	return cloneNote(d.notes[id]), nil
}

func (r *noteRepo) GetForUpdate(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	return r.GetByID(ctx, id)
}

func (r *noteRepo) Update(_ context.Context, n *entity.DeliveryNote) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.notes[n.ID]; !ok {
		return fmt.Errorf("%w: nota de entrega %s", domain.ErrNotFound, n.ID)
	}
	d.notes[n.ID] = cloneNote(n)
	return nil
}

func (r *noteRepo) List(_ context.Context, projectID string, limit, offset int) ([]*entity.DeliveryNote, error) {
	d, unlock := r.h.view()
	defer unlock()
	keys := sortedKeys(d.notes, func(a, b *entity.DeliveryNote) bool { return a.CreatedAt.After(b.CreatedAt) })
	var matched []*entity.DeliveryNote
	for _, k := range keys {
		if projectID == "" || d.notes[k].ProjectID == projectID {
			matched = append(matched, d.notes[k])
		}
	}
	from, to := page(len(matched), limit, offset)
	out := make([]*entity.DeliveryNote, 0, to-from)
	for _, n := range matched[from:to] {
		out = append(out, cloneNote(n))
	}
	return out, nil
}

type counterRepo struct{ h *handle }

func (r *counterRepo) Next(_ context.Context, series string, year int) (int, error) {
	d, unlock := r.h.view()
	defer unlock()
	k := counterKey{series, year}
	d.counters[k]++
	return d.counters[k], nil
}
