package purchasing

import (
	"fmt"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReceivedQty cantidad reportada como recibida para un artículo.
type ReceivedQty struct {
	ItemID   string
	Quantity decimal.Decimal
}

// ReceptionPlan resultado puro de evaluar una recepción contra una orden.
type ReceptionPlan struct {
	// Received cantidad efectivamente recibida por artículo (solo > 0).
	Received      []ReceivedQty
	TotalOrdered  decimal.Decimal
	TotalReceived decimal.Decimal
	IsPartial     bool
	// PendingItems líneas Material con remanente > 0, listas para el backorder.
	PendingItems []entity.OrderLine
}

// PlanReception valida las cantidades recibidas y calcula el remanente por línea.
// Solo las líneas Material con ItemID participan; las de Servicio nunca se reciben físicamente.
// Lo recibido de un artículo se reparte entre sus líneas en el orden en que aparecen.
func PlanReception(order *entity.PurchaseOrder, received []ReceivedQty) (*ReceptionPlan, error) {
	ordered := make(map[string]decimal.Decimal)
	for _, l := range order.Items {
		if !isReceivable(l) {
			continue
		}
		ordered[l.ItemID] = ordered[l.ItemID].Add(l.Quantity)
	}

	remaining := make(map[string]decimal.Decimal, len(received))
	seen := make(map[string]bool, len(received))
	for _, r := range received {
		if r.ItemID == "" {
			return nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidInput)
		}
		if seen[r.ItemID] {
			return nil, fmt.Errorf("%w: artículo %s repetido", domain.ErrInvalidInput, r.ItemID)
		}
		seen[r.ItemID] = true
		limit, ok := ordered[r.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: el artículo %s no está en una línea Material de la orden", domain.ErrInvalidInput, r.ItemID)
		}
		if r.Quantity.IsNegative() || r.Quantity.GreaterThan(limit) {
			return nil, fmt.Errorf("%w: cantidad %s fuera de rango [0, %s] para %s",
				domain.ErrInvalidInput, r.Quantity, limit, r.ItemID)
		}
		remaining[r.ItemID] = r.Quantity
	}

	plan := &ReceptionPlan{TotalOrdered: decimal.Zero, TotalReceived: decimal.Zero}
	for _, l := range order.Items {
		if !isReceivable(l) {
			continue
		}
		plan.TotalOrdered = plan.TotalOrdered.Add(l.Quantity)
		got := decimal.Min(remaining[l.ItemID], l.Quantity)
		remaining[l.ItemID] = remaining[l.ItemID].Sub(got)
		plan.TotalReceived = plan.TotalReceived.Add(got)
		if pending := l.Quantity.Sub(got); pending.IsPositive() {
			line := l
			line.Quantity = pending
			plan.PendingItems = append(plan.PendingItems, line)
		}
	}
	for _, r := range received {
		if r.Quantity.IsPositive() {
			plan.Received = append(plan.Received, r)
		}
	}
	plan.IsPartial = plan.TotalReceived.LessThan(plan.TotalOrdered)
	return plan, nil
}

func isReceivable(l entity.OrderLine) bool {
	return l.Type == entity.LineTypeMaterial && l.ItemID != ""
}
