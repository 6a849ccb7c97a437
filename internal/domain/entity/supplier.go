package entity

import "time"

// Supplier proveedor al que se emiten órdenes de compra.
type Supplier struct {
	ID          string
	Name        string
	TaxID       string
	Email       string
	Phone       string
	ContactName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
