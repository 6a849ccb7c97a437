package entity

import "time"

// Client cliente dueño de uno o más proyectos.
type Client struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
