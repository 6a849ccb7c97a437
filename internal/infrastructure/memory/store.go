// Package memory implementa los repositorios y el TxRunner en memoria, con el mismo contrato
// transaccional que el adaptador PostgreSQL. Se usa en desarrollo (STORE_DRIVER=memory) y en tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type stockKey struct{ item, location string }

type counterKey struct {
	series string
	year   int
}

// dataset estado completo de la base en memoria.
type dataset struct {
	items     map[string]*entity.InventoryItem
	locations map[string]*entity.Location
	stock     map[stockKey]*entity.LocationStock
	movements []*entity.InventoryMovement
	orders    map[string]*entity.PurchaseOrder
	notes     map[string]*entity.DeliveryNote
	counters  map[counterKey]int
	suppliers map[string]*entity.Supplier
	clients   map[string]*entity.Client
	projects  map[string]*entity.Project
}

func newDataset() *dataset {
	return &dataset{
		items:     map[string]*entity.InventoryItem{},
		locations: map[string]*entity.Location{},
		stock:     map[stockKey]*entity.LocationStock{},
		orders:    map[string]*entity.PurchaseOrder{},
		notes:     map[string]*entity.DeliveryNote{},
		counters:  map[counterKey]int{},
		suppliers: map[string]*entity.Supplier{},
		clients:   map[string]*entity.Client{},
		projects:  map[string]*entity.Project{},
	}
}

// clone copia profunda; la transacción trabaja sobre la copia y la publica al confirmar.
func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.items {
		c.items[k] = cloneItem(v)
	}
	for k, v := range d.locations {
		l := *v
		c.locations[k] = &l
	}
	for k, v := range d.stock {
		s := *v
		c.stock[k] = &s
	}
	c.movements = make([]*entity.InventoryMovement, len(d.movements))
	for i, m := range d.movements {
		mm := *m
		c.movements[i] = &mm
	}
	for k, v := range d.orders {
		c.orders[k] = v.Clone()
	}
	for k, v := range d.notes {
		c.notes[k] = cloneNote(v)
	}
	for k, v := range d.counters {
		c.counters[k] = v
	}
	for k, v := range d.suppliers {
		s := *v
		c.suppliers[k] = &s
	}
	for k, v := range d.clients {
		cl := *v
		c.clients[k] = &cl
	}
	for k, v := range d.projects {
		p := *v
		c.projects[k] = &p
	}
	return c
}

// Store base de datos en memoria. Las transacciones se serializan entre sí y con las
// escrituras sueltas; nunca quedan cambios parciales.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

// New crea una base vacía.
func New() *Store {
	return &Store{data: newDataset()}
}

// handle acceso a un dataset. Fuera de transacción toma el mutex del Store en cada operación;
// dentro de Run el mutex ya está tomado y lock no hace nada.
type handle struct {
	store *Store
	tx    *dataset
}

func (h *handle) view() (*dataset, func()) {
	if h.tx != nil {
		return h.tx, func() {}
	}
	h.store.mu.Lock()
	return h.store.data, h.store.mu.Unlock
}

// Stores repositorios atados a la base (fuera de transacción).
func (s *Store) Stores() repository.Stores {
	return bind(&handle{store: s})
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(repository.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(bind(&handle{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

func bind(h *handle) repository.Stores {
	return repository.Stores{
		Items:         &itemRepo{h},
		Locations:     &locationRepo{h},
		Stock:         &stockRepo{h},
		Movements:     &movementRepo{h},
		Orders:        &orderRepo{h},
		DeliveryNotes: &noteRepo{h},
		Counters:      &counterRepo{h},
		Suppliers:     &supplierRepo{h},
		Clients:       &clientRepo{h},
		Projects:      &projectRepo{h},
	}
}

// page aplica limit/offset sobre n elementos; limit <= 0 no recorta.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

func sortedKeys[V any](m map[string]V, less func(a, b V) bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m[keys[i]], m[keys[j]]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

func cloneItem(i *entity.InventoryItem) *entity.InventoryItem {
	if i == nil {
		return nil
	}
	c := *i
	c.Components = append([]entity.KitComponent(nil), i.Components...)
	return &c
}

func cloneNote(n *entity.DeliveryNote) *entity.DeliveryNote {
	if n == nil {
		return nil
	}
	c := *n
	c.Items = append([]entity.DeliveryLine(nil), n.Items...)
	if n.DeliveredAt != nil {
		d := *n.DeliveredAt
		c.DeliveredAt = &d
	}
	return &c
}

func sortStock(list []*entity.LocationStock) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].ItemID != list[j].ItemID {
			return list[i].ItemID < list[j].ItemID
		}
		return list[i].LocationID < list[j].LocationID
	})
}
