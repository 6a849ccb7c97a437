package dto

import "github.com/shopspring/decimal"

// CatalogHint artículo del catálogo ofrecido al modelo como referencia.
type CatalogHint struct {
	ItemID string `json:"item_id"`
	SKU    string `json:"sku"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
}

// SupplierHint proveedor candidato ofrecido al modelo.
type SupplierHint struct {
	SupplierID string `json:"supplier_id"`
	Name       string `json:"name"`
}

// DraftLine línea propuesta por el modelo. ItemID vacío si no se reconoció en el catálogo.
type DraftLine struct {
	ItemID   string          `json:"item_id,omitempty"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	Type     string          `json:"type"`
}

// PurchaseOrderDraft borrador de orden generado por IA; no se persiste.
type PurchaseOrderDraft struct {
	Lines     []DraftLine `json:"lines"`
	Reasoning string      `json:"reasoning"`
}

// SupplierSuggestion proveedor sugerido con su justificación.
type SupplierSuggestion struct {
	SupplierID string `json:"supplier_id"`
	Reason     string `json:"reason"`
}

// DraftPurchaseOrderRequest body para POST /api/ai/draft-purchase-order.
type DraftPurchaseOrderRequest struct {
	Request string `json:"request" validate:"required,min=3,max=4000"`
}

// SuggestSuppliersRequest body para POST /api/ai/suggest-suppliers.
type SuggestSuppliersRequest struct {
	Need string `json:"need" validate:"required,min=3,max=4000"`
}

// SuggestSuppliersResponse respuesta de sugerencia de proveedores.
type SuggestSuppliersResponse struct {
	Suggestions []SupplierSuggestion `json:"suggestions"`
}
