package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KitComponentDTO línea de receta de un kit.
type KitComponentDTO struct {
	ComponentItemID string          `json:"component_item_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// CreateItemRequest entrada para crear un artículo del catálogo.
type CreateItemRequest struct {
	SKU        string            `json:"sku" validate:"required,min=1,max=64"`
	Name       string            `json:"name" validate:"required,min=1,max=200"`
	Unit       string            `json:"unit" validate:"max=20"`
	UnitCost   decimal.Decimal   `json:"unit_cost" validate:"gte=0"`
	Type       string            `json:"type" validate:"required,oneof=simple composite service"`
	Components []KitComponentDTO `json:"components" validate:"omitempty,dive"`
}

// UpdateItemRequest entrada para actualizar un artículo. El tipo no cambia.
type UpdateItemRequest struct {
	Name       *string           `json:"name" validate:"omitempty,min=1,max=200"`
	Unit       *string           `json:"unit" validate:"omitempty,max=20"`
	UnitCost   *decimal.Decimal  `json:"unit_cost"`
	Components []KitComponentDTO `json:"components" validate:"omitempty,dive"`
}

// ItemResponse salida de un artículo. Para kits UnitCost es el costo calculado.
type ItemResponse struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Unit       string            `json:"unit"`
	UnitCost   decimal.Decimal   `json:"unit_cost"`
	Type       string            `json:"type"`
	Components []KitComponentDTO `json:"components,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LocationQuantity cantidad de un artículo en una ubicación.
type LocationQuantity struct {
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ItemStockResponse stock por ubicación; para kits es la disponibilidad derivada de los componentes.
type ItemStockResponse struct {
	ItemID    string             `json:"item_id"`
	Type      string             `json:"type"`
	Locations []LocationQuantity `json:"locations"`
	Total     decimal.Decimal    `json:"total"`
}
