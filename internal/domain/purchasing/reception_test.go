package purchasing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/purchasing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sentOrder(lines ...entity.OrderLine) *entity.PurchaseOrder {
	o := &entity.PurchaseOrder{ID: "po-1", Status: entity.OrderStatusSentToSupplier, Items: lines}
	o.RecalculateTotal()
	return o
}

func TestPlanReception_Full(t *testing.T) {
	o := sentOrder(
		entity.OrderLine{ItemID: "X", ItemName: "Cable", Quantity: dec("10"), Price: dec("2"), Type: entity.LineTypeMaterial},
		entity.OrderLine{ItemName: "Instalación", Quantity: dec("1"), Price: dec("50"), Type: entity.LineTypeService},
	)
	plan, err := purchasing.PlanReception(o, []purchasing.ReceivedQty{{ItemID: "X", Quantity: dec("10")}})
	require.NoError(t, err)
	assert.False(t, plan.IsPartial)
	assert.Empty(t, plan.PendingItems)
	assert.True(t, plan.TotalOrdered.Equal(dec("10")))
	assert.True(t, plan.TotalReceived.Equal(dec("10")))
	require.Len(t, plan.Received, 1)
}

func TestPlanReception_Partial(t *testing.T) {
	o := sentOrder(
		entity.OrderLine{ItemID: "X", ItemName: "Cable", Quantity: dec("10"), Price: dec("2"), Type: entity.LineTypeMaterial},
		entity.OrderLine{ItemID: "Y", ItemName: "Tubo", Quantity: dec("3"), Price: dec("5"), Type: entity.LineTypeMaterial},
	)
	plan, err := purchasing.PlanReception(o, []purchasing.ReceivedQty{
		{ItemID: "X", Quantity: dec("6")},
		{ItemID: "Y", Quantity: dec("3")},
	})
	require.NoError(t, err)
	assert.True(t, plan.IsPartial)
	require.Len(t, plan.PendingItems, 1)
	assert.Equal(t, "X", plan.PendingItems[0].ItemID)
	assert.True(t, plan.PendingItems[0].Quantity.Equal(dec("4")))
	assert.True(t, plan.PendingItems[0].Price.Equal(dec("2")))
}

func TestPlanReception_MissingItemCountsAsZero(t *testing.T) {
	o := sentOrder(
		entity.OrderLine{ItemID: "X", Quantity: dec("5"), Price: dec("1"), Type: entity.LineTypeMaterial},
		entity.OrderLine{ItemID: "Y", Quantity: dec("2"), Price: dec("1"), Type: entity.LineTypeMaterial},
	)
	plan, err := purchasing.PlanReception(o, []purchasing.ReceivedQty{{ItemID: "X", Quantity: dec("5")}})
	require.NoError(t, err)
	assert.True(t, plan.IsPartial)
	require.Len(t, plan.PendingItems, 1)
	assert.Equal(t, "Y", plan.PendingItems[0].ItemID)
	require.Len(t, plan.Received, 1)
}

func TestPlanReception_Invalid(t *testing.T) {
	o := sentOrder(entity.OrderLine{ItemID: "X", Quantity: dec("5"), Price: dec("1"), Type: entity.LineTypeMaterial})
	cases := map[string][]purchasing.ReceivedQty{
		"exceso":     {{ItemID: "X", Quantity: dec("6")}},
		"negativo":   {{ItemID: "X", Quantity: dec("-1")}},
		"ajeno":      {{ItemID: "Z", Quantity: dec("1")}},
		"repetido":   {{ItemID: "X", Quantity: dec("1")}, {ItemID: "X", Quantity: dec("1")}},
		"sin_codigo": {{Quantity: dec("1")}},
	}
	for name, received := range cases {
		_, err := purchasing.PlanReception(o, received)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), name)
	}
}
