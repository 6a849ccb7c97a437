package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineDTO línea de una orden de compra. ItemID es opcional.
type OrderLineDTO struct {
	ItemID   string          `json:"item_id,omitempty"`
	ItemName string          `json:"item_name" validate:"max=200"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Type     string          `json:"type" validate:"required,oneof=Material Servicio"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
// Status es opcional; por defecto la orden queda pendiente de aprobación.
type CreatePurchaseOrderRequest struct {
	SupplierID            string         `json:"supplier_id" validate:"required"`
	ProjectID             string         `json:"project_id" validate:"required"`
	Items                 []OrderLineDTO `json:"items" validate:"required,min=1,dive"`
	OrderDate             *time.Time     `json:"order_date"`
	EstimatedDeliveryDate *time.Time     `json:"estimated_delivery_date"`
	Notes                 string         `json:"notes" validate:"max=2000"`
	Status                string         `json:"status"`
}

// UpdatePurchaseOrderRequest edición de una orden pendiente de aprobación.
type UpdatePurchaseOrderRequest struct {
	Items                 []OrderLineDTO `json:"items" validate:"omitempty,min=1,dive"`
	EstimatedDeliveryDate *time.Time     `json:"estimated_delivery_date"`
	Notes                 *string        `json:"notes" validate:"omitempty,max=2000"`
}

// TransitionRequest body para POST /api/purchase-orders/:id/transition.
type TransitionRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ApproveRequest body para POST /api/purchase-orders/:id/approve.
type ApproveRequest struct {
	Comment string `json:"comment" validate:"max=1000"`
}

// RejectRequest body para POST /api/purchase-orders/:id/reject.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ApprovalActionRequest body para POST /api/approvals/:token.
type ApprovalActionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason" validate:"max=1000"`
}

// ReceivedItemDTO cantidad recibida de un artículo.
type ReceivedItemDTO struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}

// ReceptionRequest body para POST /api/purchase-orders/:id/receptions.
// IsPartial es opcional; si viene debe coincidir con lo calculado.
type ReceptionRequest struct {
	LocationID    string            `json:"location_id" validate:"required"`
	ReceivedItems []ReceivedItemDTO `json:"received_items" validate:"required,min=1,dive"`
	Notes         string            `json:"notes" validate:"max=2000"`
	IsPartial     *bool             `json:"is_partial"`
}

// StatusHistoryDTO entrada del historial de estados.
type StatusHistoryDTO struct {
	Status  string    `json:"status"`
	Date    time.Time `json:"date"`
	Comment string    `json:"comment,omitempty"`
}

// PurchaseOrderResponse modelo de lectura de una orden. Overdue se calcula al leer.
type PurchaseOrderResponse struct {
	ID                    string             `json:"id"`
	OrderNumber           string             `json:"order_number"`
	SupplierID            string             `json:"supplier_id"`
	SupplierName          string             `json:"supplier_name"`
	ProjectID             string             `json:"project_id"`
	ProjectName           string             `json:"project_name"`
	Items                 []OrderLineDTO     `json:"items"`
	Total                 decimal.Decimal    `json:"total"`
	Status                string             `json:"status"`
	StatusHistory         []StatusHistoryDTO `json:"status_history"`
	RejectionReason       string             `json:"rejection_reason,omitempty"`
	OriginalOrderID       string             `json:"original_order_id,omitempty"`
	BackorderIDs          []string           `json:"backorder_ids,omitempty"`
	OrderDate             time.Time          `json:"order_date"`
	EstimatedDeliveryDate *time.Time         `json:"estimated_delivery_date,omitempty"`
	Notes                 string             `json:"notes,omitempty"`
	Overdue               bool               `json:"overdue"`
	CreatedBy             string             `json:"created_by"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReceptionResponse resultado de una recepción.
type ReceptionResponse struct {
	Order     PurchaseOrderResponse  `json:"order"`
	IsPartial bool                   `json:"is_partial"`
	Backorder *PurchaseOrderResponse `json:"backorder,omitempty"`
}

// ApprovalSummaryResponse resumen que ve el aprobador al abrir el enlace.
type ApprovalSummaryResponse struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Supplier    string          `json:"supplier"`
	Project     string          `json:"project"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
}
