package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryLineDTO línea de despacho.
type DeliveryLineDTO struct {
	ItemID   string          `json:"item_id" validate:"required"`
	ItemName string          `json:"item_name,omitempty"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// CreateDeliveryNoteRequest body para POST /api/delivery-notes.
type CreateDeliveryNoteRequest struct {
	ProjectID  string            `json:"project_id" validate:"required"`
	ClientID   string            `json:"client_id"`
	LocationID string            `json:"location_id" validate:"required"`
	Items      []DeliveryLineDTO `json:"items" validate:"required,min=1,dive"`
	Notes      string            `json:"notes" validate:"max=2000"`
}

// DeliveryNoteResponse salida de una nota de entrega.
type DeliveryNoteResponse struct {
	ID          string            `json:"id"`
	NoteNumber  string            `json:"note_number"`
	ProjectID   string            `json:"project_id"`
	ClientID    string            `json:"client_id,omitempty"`
	LocationID  string            `json:"location_id"`
	Items       []DeliveryLineDTO `json:"items"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedBy   string            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	DeliveredAt *time.Time        `json:"delivered_at,omitempty"`
}

// DeliveryNoteListResponse lista paginada de notas de entrega.
type DeliveryNoteListResponse struct {
	Items []DeliveryNoteResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
