package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var (
	_ repository.InventoryItemRepository     = (*itemRepo)(nil)
	_ repository.LocationRepository          = (*locationRepo)(nil)
	_ repository.StockRepository             = (*stockRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
)

type itemRepo struct{ h *handle }

func (r *itemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.items[item.ID]; ok {
		return fmt.Errorf("%w: artículo %s", domain.ErrDuplicate, item.ID)
	}
	for _, it := range d.items {
		if it.SKU == item.SKU {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, item.SKU)
		}
	}
	d.items[item.ID] = cloneItem(item)
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	d, unlock := r.h.view()
	defer unlock()
	return cloneItem(d.items[id]), nil
}

func (r *itemRepo) GetBySKU(_ context.Context, sku string) (*entity.InventoryItem, error) {
	d, unlock := r.h.view()
	defer unlock()
	for _, it := range d.items {
		if it.SKU == sku {
			return cloneItem(it), nil
		}
	}
	return nil, nil
}

func (r *itemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.items[item.ID]; !ok {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, item.ID)
	}
	d.items[item.ID] = cloneItem(item)
	return nil
}

func (r *itemRepo) List(_ context.Context, itemType string, limit, offset int) ([]*entity.InventoryItem, error) {
	d, unlock := r.h.view()
	defer unlock()
	keys := sortedKeys(d.items, func(a, b *entity.InventoryItem) bool { return a.SKU < b.SKU })
	var out []*entity.InventoryItem
	for _, k := range keys {
		if itemType == "" || d.items[k].Type == itemType {
			out = append(out, d.items[k])
		}
	}
	from, to := page(len(out), limit, offset)
	res := make([]*entity.InventoryItem, 0, to-from)
	for _, it := range out[from:to] {
		res = append(res, cloneItem(it))
	}
	return res, nil
}

func (r *itemRepo) ListCompositesUsing(_ context.Context, componentID string) ([]*entity.InventoryItem, error) {
	d, unlock := r.h.view()
	defer unlock()
	var out []*entity.InventoryItem
	for _, k := range sortedKeys(d.items, func(a, b *entity.InventoryItem) bool { return a.SKU < b.SKU }) {
		it := d.items[k]
		if it.Type != entity.ItemTypeComposite {
			continue
		}
		for _, c := range it.Components {
			if c.ComponentItemID == componentID {
				out = append(out, cloneItem(it))
				break
			}
		}
	}
	return out, nil
}

func (r *itemRepo) Delete(_ context.Context, id string) error {
	d, unlock := r.h.view()
	defer unlock()
	delete(d.items, id)
	return nil
}

type locationRepo struct{ h *handle }

func (r *locationRepo) Create(_ context.Context, l *entity.Location) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.locations[l.ID]; ok {
		return fmt.Errorf("%w: ubicación %s", domain.ErrDuplicate, l.ID)
	}
	c := *l
	d.locations[l.ID] = &c
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	d, unlock := r.h.view()
	defer unlock()
	l, ok := d.locations[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r *locationRepo) Update(_ context.Context, l *entity.Location) error {
	d, unlock := r.h.view()
	defer unlock()
	if _, ok := d.locations[l.ID]; !ok {
		return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, l.ID)
	}
	c := *l
	d.locations[l.ID] = &c
	return nil
}

func (r *locationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	d, unlock := r.h.view()
	defer unlock()
	keys := sortedKeys(d.locations, func(a, b *entity.Location) bool { return a.Name < b.Name })
	from, to := page(len(keys), limit, offset)
	out := make([]*entity.Location, 0, to-from)
	for _, k := range keys[from:to] {
		c := *d.locations[k]
		out = append(out, &c)
	}
	return out, nil
}

func (r *locationRepo) Delete(_ context.Context, id string) error {
	d, unlock := r.h.view()
	defer unlock()
	delete(d.locations, id)
	return nil
}

type stockRepo struct{ h *handle }

func (r *stockRepo) Get(_ context.Context, itemID, locationID string) (*entity.LocationStock, error) {
	d, unlock := r.h.view()
	defer unlock()
	return getStock(d, itemID, locationID), nil
}

// GetForUpdate en memoria equivale a Get: la transacción ya tiene acceso exclusivo.
func (r *stockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.LocationStock, error) {
	return r.Get(ctx, itemID, locationID)
}

func getStock(d *dataset, itemID, locationID string) *entity.LocationStock {
	if s, ok := d.stock[stockKey{itemID, locationID}]; ok {
		c := *s
		return &c
	}
	return &entity.LocationStock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}
}

func (r *stockRepo) Increase(_ context.Context, itemID, locationID string, qty decimal.Decimal) error {
	d, unlock := r.h.view()
	defer unlock()
	k := stockKey{itemID, locationID}
	s, ok := d.stock[k]
	if !ok {
		s = &entity.LocationStock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}
		d.stock[k] = s
	}
	next := s.Quantity.Add(qty)
	if next.IsNegative() {
		return fmt.Errorf("%w: artículo %s en ubicación %s", domain.ErrInsufficientStock, itemID, locationID)
	}
	s.Quantity = next
	s.UpdatedAt = time.Now()
	return nil
}

func (r *stockRepo) Save(_ context.Context, stock *entity.LocationStock) error {
	if stock.Quantity.IsNegative() {
		return fmt.Errorf("%w: artículo %s en ubicación %s", domain.ErrInsufficientStock, stock.ItemID, stock.LocationID)
	}
	d, unlock := r.h.view()
	defer unlock()
	c := *stock
	d.stock[stockKey{stock.ItemID, stock.LocationID}] = &c
	return nil
}

func (r *stockRepo) Delete(_ context.Context, itemID, locationID string) error {
	d, unlock := r.h.view()
	defer unlock()
	delete(d.stock, stockKey{itemID, locationID})
	return nil
}

func (r *stockRepo) DeleteByItem(_ context.Context, itemID string) error {
	d, unlock := r.h.view()
	defer unlock()
	for k := range d.stock {
		if k.item == itemID {
			delete(d.stock, k)
		}
	}
	return nil
}

func (r *stockRepo) DeleteByLocation(_ context.Context, locationID string) error {
	d, unlock := r.h.view()
	defer unlock()
	for k := range d.stock {
		if k.location == locationID {
			delete(d.stock, k)
		}
	}
	return nil
}

func (r *stockRepo) ListByItem(_ context.Context, itemID string) ([]*entity.LocationStock, error) {
	return r.filter(func(k stockKey) bool { return k.item == itemID }), nil
}

func (r *stockRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.LocationStock, error) {
	return r.filter(func(k stockKey) bool { return k.location == locationID }), nil
}

func (r *stockRepo) ListAll(_ context.Context) ([]*entity.LocationStock, error) {
	return r.filter(func(stockKey) bool { return true }), nil
}

func (r *stockRepo) HasPositiveStock(_ context.Context, locationID string) (bool, error) {
	d, unlock := r.h.view()
	defer unlock()
	for k, s := range d.stock {
		if k.location == locationID && s.Quantity.IsPositive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *stockRepo) filter(match func(stockKey) bool) []*entity.LocationStock {
	d, unlock := r.h.view()
	defer unlock()
	out := make([]*entity.LocationStock, 0)
	for k, s := range d.stock {
		if match(k) {
			c := *s
			out = append(out, &c)
		}
	}
	sortStock(out)
	return out
}

type movementRepo struct{ h *handle }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	d, unlock := r.h.view()
	defer unlock()
	c := *m
	d.movements = append(d.movements, &c)
	return nil
}

// List devuelve los movimientos más recientes primero.
func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	d, unlock := r.h.view()
	defer unlock()
	var matched []*entity.InventoryMovement
	for i := len(d.movements) - 1; i >= 0; i-- {
		m := d.movements[i]
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.LocationID != "" && m.LocationID != f.LocationID {
			continue
		}
		if f.From != nil && m.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Date.After(*f.To) {
			continue
		}
		matched = append(matched, m)
	}
	from, to := page(len(matched), f.Limit, f.Offset)
	out := make([]*entity.InventoryMovement, 0, to-from)
	for _, m := range matched[from:to] {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}
