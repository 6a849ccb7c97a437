package inventory

import (
	"fmt"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Line cantidad de un artículo del catálogo (simple o kit).
type Line struct {
	ItemID   string
	Quantity decimal.Decimal
}

// Explode convierte líneas de catálogo en cantidades de artículos simples.
// Los kits se reemplazan por sus componentes (cantidad componente × cantidad línea);
// los servicios no son físicos y se rechazan. El resultado agrupa por artículo
// y conserva el orden de primera aparición.
func Explode(lines []Line, items map[string]*entity.InventoryItem) ([]Line, error) {
	totals := make(map[string]decimal.Decimal)
	var order []string
	add := func(id string, q decimal.Decimal) {
		if _, ok := totals[id]; !ok {
			order = append(order, id)
		}
		totals[id] = totals[id].Add(q)
	}
	for _, l := range lines {
		item, ok := items[l.ItemID]
		if !ok || item == nil {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, l.ItemID)
		}
		switch item.Type {
		case entity.ItemTypeSimple:
			add(item.ID, l.Quantity)
		case entity.ItemTypeComposite:
			if len(item.Components) == 0 {
				return nil, fmt.Errorf("%w: el kit %s no tiene componentes", domain.ErrInvalidInput, item.SKU)
			}
			for _, c := range item.Components {
				add(c.ComponentItemID, c.Quantity.Mul(l.Quantity))
			}
		default:
			return nil, fmt.Errorf("%w: el artículo %s es un servicio y no lleva stock", domain.ErrInvalidInput, item.SKU)
		}
	}
	out := make([]Line, 0, len(order))
	for _, id := range order {
		out = append(out, Line{ItemID: id, Quantity: totals[id]})
	}
	return out, nil
}

// CompositeUnitCost Σ costo unitario del componente × cantidad.
// Un componente ausente del mapa aporta cero.
func CompositeUnitCost(kit *entity.InventoryItem, components map[string]*entity.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, c := range kit.Components {
		if comp, ok := components[c.ComponentItemID]; ok && comp != nil {
			total = total.Add(comp.UnitCost.Mul(c.Quantity))
		}
	}
	return total
}

// KitAvailability kits completos que se pueden armar con el stock dado (por componente).
// min(floor(stock / cantidad)) sobre todos los componentes.
func KitAvailability(kit *entity.InventoryItem, stockByComponent map[string]decimal.Decimal) decimal.Decimal {
	if len(kit.Components) == 0 {
		return decimal.Zero
	}
	var result decimal.Decimal
	for i, c := range kit.Components {
		if !c.Quantity.IsPositive() {
			continue
		}
		n := stockByComponent[c.ComponentItemID].Div(c.Quantity).Floor()
		if i == 0 || n.LessThan(result) {
			result = n
		}
	}
	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}

// ValidateComponents verifica la receta de un kit: componentes simples existentes,
// cantidades positivas, sin repetir y sin referencia a sí mismo.
func ValidateComponents(kitID string, comps []entity.KitComponent, items map[string]*entity.InventoryItem) error {
	if len(comps) == 0 {
		return fmt.Errorf("%w: un kit requiere al menos un componente", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(comps))
	for _, c := range comps {
		if c.ComponentItemID == "" || !c.Quantity.IsPositive() {
			return fmt.Errorf("%w: componente sin artículo o con cantidad no positiva", domain.ErrInvalidInput)
		}
		if kitID != "" && c.ComponentItemID == kitID {
			return fmt.Errorf("%w: un kit no puede contenerse a sí mismo", domain.ErrInvalidInput)
		}
		if seen[c.ComponentItemID] {
			return fmt.Errorf("%w: componente %s repetido", domain.ErrInvalidInput, c.ComponentItemID)
		}
		seen[c.ComponentItemID] = true
		comp, ok := items[c.ComponentItemID]
		if !ok || comp == nil {
			return fmt.Errorf("%w: componente %s no existe", domain.ErrInvalidInput, c.ComponentItemID)
		}
		if comp.Type != entity.ItemTypeSimple {
			return fmt.Errorf("%w: el componente %s no es un artículo simple", domain.ErrInvalidInput, comp.SKU)
		}
	}
	return nil
}
