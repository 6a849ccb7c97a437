package entity

import "time"

// Estados de proyecto.
const (
	ProjectStatusActive = "Activo"
	ProjectStatusClosed = "Cerrado"
)

// Project obra o proyecto al que se imputan compras y despachos.
type Project struct {
	ID        string
	Name      string
	ClientID  string
	Address   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
