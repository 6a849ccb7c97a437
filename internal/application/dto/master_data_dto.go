package dto

import "time"

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	TaxID       string `json:"tax_id" validate:"max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=30"`
	ContactName string `json:"contact_name" validate:"max=200"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID       *string `json:"tax_id" validate:"omitempty,max=30"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=200"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ContactName string    `json:"contact_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	TaxID   string `json:"tax_id" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address"`
}

// UpdateClientRequest entrada para actualizar un cliente.
type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=30"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateProjectRequest entrada para crear un proyecto.
type CreateProjectRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	ClientID string `json:"client_id"`
	Address  string `json:"address"`
}

// UpdateProjectRequest entrada para actualizar un proyecto.
type UpdateProjectRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	ClientID *string `json:"client_id"`
	Address  *string `json:"address"`
	Status   *string `json:"status" validate:"omitempty,oneof=Activo Cerrado"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClientID  string    `json:"client_id,omitempty"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectListResponse lista paginada de proyectos.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
