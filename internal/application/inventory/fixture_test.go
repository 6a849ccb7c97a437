package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/lock"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	stores repository.Stores
	locker *lock.LocalLocker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	return &fixture{ctx: context.Background(), store: store, stores: store.Stores(), locker: lock.NewLocalLocker()}
}

func (f *fixture) simple(t *testing.T, id, cost string) {
	t.Helper()
	require.NoError(t, f.stores.Items.Create(f.ctx, &entity.InventoryItem{
		ID: id, SKU: "SKU-" + id, Name: "Artículo " + id, Unit: "und", UnitCost: dec(cost), Type: entity.ItemTypeSimple,
	}))
}

func (f *fixture) kit(t *testing.T, id string, comps ...entity.KitComponent) {
	t.Helper()
	require.NoError(t, f.stores.Items.Create(f.ctx, &entity.InventoryItem{
		ID: id, SKU: "SKU-" + id, Name: "Kit " + id, Type: entity.ItemTypeComposite, Components: comps,
	}))
}

func (f *fixture) service(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.stores.Items.Create(f.ctx, &entity.InventoryItem{
		ID: id, SKU: "SKU-" + id, Name: "Servicio " + id, Type: entity.ItemTypeService,
	}))
}

func (f *fixture) location(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.stores.Locations.Create(f.ctx, &entity.Location{
		ID: id, Name: "Bodega " + id, Type: entity.LocationTypePhysical, CreatedAt: time.Now(),
	}))
}

func (f *fixture) project(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.stores.Projects.Create(f.ctx, &entity.Project{
		ID: id, Name: "Proyecto " + id, Status: entity.ProjectStatusActive,
	}))
}

func (f *fixture) setStock(t *testing.T, item, loc, qty string) {
	t.Helper()
	require.NoError(t, f.stores.Stock.Save(f.ctx, &entity.LocationStock{ItemID: item, LocationID: loc, Quantity: dec(qty)}))
}

func (f *fixture) qty(t *testing.T, item, loc string) decimal.Decimal {
	t.Helper()
	s, err := f.stores.Stock.Get(f.ctx, item, loc)
	require.NoError(t, err)
	return s.Quantity
}

func (f *fixture) hasRecord(t *testing.T, item, loc string) bool {
	t.Helper()
	list, err := f.stores.Stock.ListByItem(f.ctx, item)
	require.NoError(t, err)
	for _, s := range list {
		if s.LocationID == loc {
			return true
		}
	}
	return false
}

func comp(id, qty string) entity.KitComponent {
	return entity.KitComponent{ComponentItemID: id, Quantity: dec(qty)}
}
