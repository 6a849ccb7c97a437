package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeRECEPTION  = "RECEPTION"  // recepción de una orden de compra
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre ubicaciones
	MovementTypeDESPATCH   = "DESPATCH"   // salida por nota de entrega
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual
)

// InventoryMovement registro del diario de stock. Quantity es positivo para entradas y negativo para salidas.
type InventoryMovement struct {
	ID            string
	TransactionID string
	ItemID        string
	LocationID    string
	Type          string
	Quantity      decimal.Decimal
	Reference     string // número de orden, nota de entrega, etc.
	Date          time.Time
	CreatedBy     string
}
