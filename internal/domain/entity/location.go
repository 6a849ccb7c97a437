package entity

import "time"

// Tipos de ubicación.
const (
	LocationTypePhysical = "physical" // bodega, obra
	LocationTypeMobile   = "mobile"   // vehículo, técnico
)

// Location lugar físico o móvil donde se guarda inventario (multi-ubicación).
type Location struct {
	ID        string
	Name      string
	Type      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
