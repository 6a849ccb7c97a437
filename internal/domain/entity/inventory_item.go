package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de artículo del catálogo.
const (
	ItemTypeSimple    = "simple"    // lleva stock por ubicación
	ItemTypeComposite = "composite" // kit: se consume vía sus componentes
	ItemTypeService   = "service"   // no físico, nunca lleva stock
)

// KitComponent una línea de la receta de un kit.
type KitComponent struct {
	ComponentItemID string          `json:"componentItemId"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// InventoryItem artículo del catálogo (simple, kit o servicio).
// Para kits UnitCost se calcula al leer (Σ costo componente × cantidad); el valor guardado se ignora.
type InventoryItem struct {
	ID         string
	SKU        string
	Name       string
	Unit       string
	UnitCost   decimal.Decimal
	Type       string
	Components []KitComponent
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsStockable indica si el artículo tiene registros propios de stock.
func (i *InventoryItem) IsStockable() bool { return i.Type == ItemTypeSimple }

// IsValidItemType valida el tipo de artículo.
func IsValidItemType(t string) bool {
	switch t {
	case ItemTypeSimple, ItemTypeComposite, ItemTypeService:
		return true
	}
	return false
}
