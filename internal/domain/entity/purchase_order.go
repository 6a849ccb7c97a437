package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de una orden de compra.
type OrderStatus string

// Estados de la orden de compra (ver purchasing.CanTransition para las transiciones válidas).
const (
	OrderStatusPendingApproval   OrderStatus = "Pendiente de Aprobación"
	OrderStatusApproved          OrderStatus = "Aprobada"
	OrderStatusRejected          OrderStatus = "Rechazado"
	OrderStatusSentToSupplier    OrderStatus = "Enviada al Proveedor"
	OrderStatusReceived          OrderStatus = "Recibida"
	OrderStatusPartiallyReceived OrderStatus = "Recibida Parcialmente"
	OrderStatusStored            OrderStatus = "Almacenada"
)

// Tipos de línea de orden.
const (
	LineTypeMaterial = "Material"
	LineTypeService  = "Servicio"
)

// OrderLine línea de una orden de compra. ItemID es opcional (líneas de texto libre).
type OrderLine struct {
	ItemID   string          `json:"itemId,omitempty"`
	ItemName string          `json:"itemName"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Type     string          `json:"type"`
}

// Subtotal cantidad × precio.
func (l OrderLine) Subtotal() decimal.Decimal { return l.Quantity.Mul(l.Price) }

// StatusHistoryEntry una entrada del historial de estados (solo se agregan, nunca se modifican).
type StatusHistoryEntry struct {
	Status  OrderStatus `json:"status"`
	Date    time.Time   `json:"date"`
	Comment string      `json:"comment,omitempty"`
}

// PurchaseOrder orden de compra a un proveedor para un proyecto.
type PurchaseOrder struct {
	ID                    string
	OrderNumber           string // WF-PO-<año>-<secuencia>, asignado una sola vez
	SupplierID            string
	SupplierName          string
	ProjectID             string
	ProjectName           string
	Items                 []OrderLine
	Total                 decimal.Decimal
	Status                OrderStatus
	StatusHistory         []StatusHistoryEntry
	RejectionReason       string
	OriginalOrderID       string   // orden padre cuando es un backorder
	BackorderIDs          []string // backorders generados por recepciones parciales
	OrderDate             time.Time
	EstimatedDeliveryDate *time.Time
	Notes                 string
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RecalculateTotal recalcula Total como Σ cantidad × precio.
func (o *PurchaseOrder) RecalculateTotal() {
	total := decimal.Zero
	for _, l := range o.Items {
		total = total.Add(l.Subtotal())
	}
	o.Total = total
}

// AppendHistory cambia el estado y agrega exactamente una entrada al historial.
// No valida la transición; eso lo hace purchasing.Transition.
func (o *PurchaseOrder) AppendHistory(status OrderStatus, at time.Time, comment string) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusHistoryEntry{Status: status, Date: at, Comment: comment})
	o.UpdatedAt = at
}

// IsOverdue se calcula al leer: fecha estimada vencida y la mercancía aún no llega.
func (o *PurchaseOrder) IsOverdue(now time.Time) bool {
	if o.EstimatedDeliveryDate == nil {
		return false
	}
	if o.Status != OrderStatusApproved && o.Status != OrderStatusSentToSupplier {
		return false
	}
	return o.EstimatedDeliveryDate.Before(now)
}

// Clone copia profunda (slices incluidos).
func (o *PurchaseOrder) Clone() *PurchaseOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]OrderLine(nil), o.Items...)
	c.StatusHistory = append([]StatusHistoryEntry(nil), o.StatusHistory...)
	c.BackorderIDs = append([]string(nil), o.BackorderIDs...)
	if o.EstimatedDeliveryDate != nil {
		d := *o.EstimatedDeliveryDate
		c.EstimatedDeliveryDate = &d
	}
	return &c
}
