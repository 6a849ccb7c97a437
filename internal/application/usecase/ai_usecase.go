package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// aiTimeout límite de cada llamada al LLM.
const aiTimeout = 10 * time.Second

// hintLimit cuántos artículos/proveedores se ofrecen al modelo como contexto.
const hintLimit = 200

// AIUseCase orquesta los borradores asistidos por IA. Nada de lo que devuelve se persiste.
type AIUseCase struct {
	llm       ports.LLMService
	items     repository.InventoryItemRepository
	suppliers repository.SupplierRepository
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAIUseCase(llm ports.LLMService, items repository.InventoryItemRepository, suppliers repository.SupplierRepository) *AIUseCase {
	return &AIUseCase{llm: llm, items: items, suppliers: suppliers}
}

// DraftPurchaseOrder propone líneas de orden para un requerimiento en texto libre.
// Las líneas que citan artículos fuera del catálogo quedan como texto libre.
func (uc *AIUseCase) DraftPurchaseOrder(ctx context.Context, req dto.DraftPurchaseOrderRequest) (*dto.PurchaseOrderDraft, error) {
	if req.Request == "" {
		return nil, fmt.Errorf("%w: request es obligatorio", domain.ErrInvalidInput)
	}
	items, err := uc.items.List(ctx, "", hintLimit, 0)
	if err != nil {
		return nil, err
	}
	catalog := make([]dto.CatalogHint, 0, len(items))
	known := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Type == entity.ItemTypeService {
			continue
		}
		catalog = append(catalog, dto.CatalogHint{ItemID: it.ID, SKU: it.SKU, Name: it.Name, Unit: it.Unit})
		known[it.ID] = true
	}

	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	draft, err := uc.llm.DraftPurchaseOrder(ctx, req.Request, catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: borrador IA: %w", domain.ErrDependencyFailure, err)
	}
	if draft == nil {
		return &dto.PurchaseOrderDraft{Lines: []dto.DraftLine{}}, nil
	}
	lines := draft.Lines[:0]
	for _, l := range draft.Lines {
		if !l.Quantity.IsPositive() {
			continue
		}
		if l.ItemID != "" && !known[l.ItemID] {
			l.ItemID = ""
		}
		if l.Type != entity.LineTypeService {
			l.Type = entity.LineTypeMaterial
		}
		lines = append(lines, l)
	}
	draft.Lines = lines
	return draft, nil
}

// SuggestSuppliers ordena los proveedores registrados según la necesidad descrita.
func (uc *AIUseCase) SuggestSuppliers(ctx context.Context, req dto.SuggestSuppliersRequest) (*dto.SuggestSuppliersResponse, error) {
	if req.Need == "" {
		return nil, fmt.Errorf("%w: need es obligatorio", domain.ErrInvalidInput)
	}
	list, err := uc.suppliers.List(ctx, hintLimit, 0)
	if err != nil {
		return nil, err
	}
	hints := make([]dto.SupplierHint, 0, len(list))
	known := make(map[string]bool, len(list))
	for _, s := range list {
		hints = append(hints, dto.SupplierHint{SupplierID: s.ID, Name: s.Name})
		known[s.ID] = true
	}
	if len(hints) == 0 {
		return &dto.SuggestSuppliersResponse{Suggestions: []dto.SupplierSuggestion{}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	suggestions, err := uc.llm.SuggestSuppliers(ctx, req.Need, hints)
	if err != nil {
		return nil, fmt.Errorf("%w: sugerencia IA: %w", domain.ErrDependencyFailure, err)
	}
	out := make([]dto.SupplierSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if known[s.SupplierID] {
			out = append(out, s)
		}
	}
	return &dto.SuggestSuppliersResponse{Suggestions: out}, nil
}
