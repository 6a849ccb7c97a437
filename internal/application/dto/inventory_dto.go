package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ItemID         string          `json:"item_id" validate:"required"`
	FromLocationID string          `json:"from_location_id" validate:"required"`
	ToLocationID   string          `json:"to_location_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments: fija la cantidad absoluta.
type AdjustmentRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	LocationID string          `json:"location_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gte=0"`
	Reason     string          `json:"reason" validate:"max=500"`
}

// MovementResponse un registro del diario de movimientos.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ItemID        string          `json:"item_id"`
	LocationID    string          `json:"location_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reference     string          `json:"reference"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockRow fila del reporte de stock por ubicación.
type StockRow struct {
	ItemID       string          `json:"item_id"`
	SKU          string          `json:"sku"`
	ItemName     string          `json:"item_name"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Quantity     decimal.Decimal `json:"quantity"`
}
