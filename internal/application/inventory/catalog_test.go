package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

func catalogFixture(t *testing.T) (*fixture, *inventory.CatalogUseCase) {
	f := newFixture(t)
	return f, inventory.NewCatalogUseCase(f.store, f.locker, f.stores)
}

func TestCatalog_CreateKitComputesCost(t *testing.T) {
	f, uc := catalogFixture(t)
	f.simple(t, "A", "5")
	f.simple(t, "B", "5")

	kit, err := uc.CreateItem(f.ctx, dto.CreateItemRequest{
		SKU:      "KIT-1",
		Name:     "Kit cámara",
		UnitCost: dec("999"),
		Type:     entity.ItemTypeComposite,
		Components: []dto.KitComponentDTO{
			{ComponentItemID: "A", Quantity: dec("1")},
			{ComponentItemID: "B", Quantity: dec("2")},
		},
	})
	require.NoError(t, err)
	assert.True(t, kit.UnitCost.Equal(dec("15")), "got %s", kit.UnitCost)
	assert.Len(t, kit.Components, 2)
}

func TestCatalog_CreateValidation(t *testing.T) {
	f, uc := catalogFixture(t)
	f.simple(t, "A", "5")

	_, err := uc.CreateItem(f.ctx, dto.CreateItemRequest{SKU: "SKU-A", Name: "Otro", Type: entity.ItemTypeSimple})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.CreateItem(f.ctx, dto.CreateItemRequest{SKU: "X1", Name: "Raro", Type: "otro"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.CreateItem(f.ctx, dto.CreateItemRequest{
		SKU: "K2", Name: "Kit", Type: entity.ItemTypeComposite,
		Components: []dto.KitComponentDTO{{ComponentItemID: "fantasma", Quantity: dec("1")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.CreateItem(f.ctx, dto.CreateItemRequest{
		SKU: "S1", Name: "Simple", Type: entity.ItemTypeSimple,
		Components: []dto.KitComponentDTO{{ComponentItemID: "A", Quantity: dec("1")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCatalog_DeleteComponentOfKitIsRefused(t *testing.T) {
	f, uc := catalogFixture(t)
	f.simple(t, "A", "1")
	f.kit(t, "K", comp("A", "1"))

	err := uc.DeleteItem(f.ctx, "A")
	assert.True(t, errors.Is(err, domain.ErrConflict))
	item, _ := f.stores.Items.GetByID(f.ctx, "A")
	assert.NotNil(t, item)
}

func TestCatalog_DeleteItemRemovesStock(t *testing.T) {
	f, uc := catalogFixture(t)
	f.simple(t, "A", "1")
	f.location(t, "L1")
	f.setStock(t, "A", "L1", "7")

	require.NoError(t, uc.DeleteItem(f.ctx, "A"))
	assert.False(t, f.hasRecord(t, "A", "L1"))
	_, err := uc.GetItem(f.ctx, "A")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCatalog_StockByItemForKit(t *testing.T) {
	f, uc := catalogFixture(t)
	f.simple(t, "A", "1")
	f.simple(t, "B", "1")
	f.kit(t, "K", comp("A", "1"), comp("B", "2"))
	f.location(t, "L1")
	f.location(t, "L2")
	f.setStock(t, "A", "L1", "5")
	f.setStock(t, "B", "L1", "7")
	f.setStock(t, "A", "L2", "4")

	resp, err := uc.StockByItem(f.ctx, "K")
	require.NoError(t, err)
	require.Len(t, resp.Locations, 1)
	assert.Equal(t, "L1", resp.Locations[0].LocationID)
	assert.True(t, resp.Total.Equal(dec("3")))
}

func TestCatalog_AdjustStock(t *testing.T) {
	f, uc := catalogFixture(t)
	f.simple(t, "A", "1")
	f.service(t, "S")
	f.location(t, "L1")
	f.setStock(t, "A", "L1", "5")

	require.NoError(t, uc.AdjustStock(f.ctx, "u1", dto.AdjustmentRequest{ItemID: "A", LocationID: "L1", Quantity: dec("2"), Reason: "conteo"}))
	assert.True(t, f.qty(t, "A", "L1").Equal(dec("2")))

	movs, err := uc.ListMovements(f.ctx, repository.MovementFilter{ItemID: "A"})
	require.NoError(t, err)
	require.Len(t, movs.Items, 1)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, movs.Items[0].Type)
	assert.True(t, movs.Items[0].Quantity.Equal(dec("-3")))

	err = uc.AdjustStock(f.ctx, "u1", dto.AdjustmentRequest{ItemID: "S", LocationID: "L1", Quantity: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	err = uc.AdjustStock(f.ctx, "u1", dto.AdjustmentRequest{ItemID: "A", LocationID: "L1", Quantity: dec("-1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCatalog_StockReportSortedBySKU(t *testing.T) {
	f, uc := catalogFixture(t)
	f.simple(t, "B", "1")
	f.simple(t, "A", "1")
	f.location(t, "L1")
	f.setStock(t, "B", "L1", "1")
	f.setStock(t, "A", "L1", "2")

	rows, err := uc.StockReport(f.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SKU-A", rows[0].SKU)
	assert.Equal(t, "Bodega L1", rows[0].LocationName)
}
