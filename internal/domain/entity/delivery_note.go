package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la nota de entrega.
const (
	DeliveryStatusPending   = "Pendiente de Entrega"
	DeliveryStatusDelivered = "Entregado"
)

// DeliveryLine línea de una nota de entrega; ItemName es una copia para impresión.
type DeliveryLine struct {
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DeliveryNote despacho de material desde una ubicación hacia un proyecto.
type DeliveryNote struct {
	ID          string
	NoteNumber  string // WF-DN-<año>-<secuencia>
	ProjectID   string
	ClientID    string
	LocationID  string
	Items       []DeliveryLine
	Status      string
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	DeliveredAt *time.Time
	UpdatedAt   time.Time
}
