package ports

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
)

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Gemini, mock) debe implementar esta interfaz; la aplicación solo
// conoce este contrato. Los borradores nunca se persisten automáticamente.
type LLMService interface {
	// DraftPurchaseOrder propone líneas de orden a partir de un requerimiento en texto libre.
	// catalog limita las sugerencias a artículos conocidos.
	DraftPurchaseOrder(ctx context.Context, request string, catalog []dto.CatalogHint) (*dto.PurchaseOrderDraft, error)
	// SuggestSuppliers ordena los proveedores candidatos para una necesidad.
	SuggestSuppliers(ctx context.Context, need string, suppliers []dto.SupplierHint) ([]dto.SupplierSuggestion, error)
}
