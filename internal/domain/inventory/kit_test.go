package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func catalog() map[string]*entity.InventoryItem {
	a := &entity.InventoryItem{ID: "A", SKU: "A", Type: entity.ItemTypeSimple, UnitCost: dec("10")}
	b := &entity.InventoryItem{ID: "B", SKU: "B", Type: entity.ItemTypeSimple, UnitCost: dec("2.5")}
	k := &entity.InventoryItem{ID: "K", SKU: "KIT", Type: entity.ItemTypeComposite, Components: []entity.KitComponent{
		{ComponentItemID: "A", Quantity: dec("1")},
		{ComponentItemID: "B", Quantity: dec("2")},
	}}
	s := &entity.InventoryItem{ID: "S", SKU: "SRV", Type: entity.ItemTypeService}
	return map[string]*entity.InventoryItem{"A": a, "B": b, "K": k, "S": s}
}

func TestExplode_KitAndSimpleMerge(t *testing.T) {
	out, err := inventory.Explode([]inventory.Line{
		{ItemID: "K", Quantity: dec("3")},
		{ItemID: "A", Quantity: dec("1")},
	}, catalog())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].ItemID)
	assert.True(t, out[0].Quantity.Equal(dec("4")))
	assert.Equal(t, "B", out[1].ItemID)
	assert.True(t, out[1].Quantity.Equal(dec("6")))
}

func TestExplode_ServiceRejected(t *testing.T) {
	_, err := inventory.Explode([]inventory.Line{{ItemID: "S", Quantity: dec("1")}}, catalog())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = inventory.Explode([]inventory.Line{{ItemID: "nope", Quantity: dec("1")}}, catalog())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCompositeUnitCost(t *testing.T) {
	items := catalog()
	assert.True(t, inventory.CompositeUnitCost(items["K"], items).Equal(dec("15")))
}

func TestKitAvailability(t *testing.T) {
	items := catalog()
	got := inventory.KitAvailability(items["K"], map[string]decimal.Decimal{"A": dec("5"), "B": dec("7")})
	assert.True(t, got.Equal(dec("3")), got.String())

	got = inventory.KitAvailability(items["K"], map[string]decimal.Decimal{"A": dec("5")})
	assert.True(t, got.IsZero())
}

func TestValidateComponents(t *testing.T) {
	items := catalog()
	assert.NoError(t, inventory.ValidateComponents("NEW", []entity.KitComponent{{ComponentItemID: "A", Quantity: dec("1")}}, items))

	bad := [][]entity.KitComponent{
		nil,
		{{ComponentItemID: "A", Quantity: dec("0")}},
		{{ComponentItemID: "K", Quantity: dec("1")}},
		{{ComponentItemID: "S", Quantity: dec("1")}},
		{{ComponentItemID: "A", Quantity: dec("1")}, {ComponentItemID: "A", Quantity: dec("2")}},
	}
	for i, comps := range bad {
		assert.Error(t, inventory.ValidateComponents("K", comps, items), i)
	}
}
