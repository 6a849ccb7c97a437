package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
)

// AIHandler borradores de compra asistidos por IA. Nada se persiste.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// DraftPurchaseOrder godoc
// @Summary      Borrador de orden de compra con IA
// @Description  Propone líneas a partir de un requerimiento en texto libre. Solo referencia artículos
//
//	del catálogo; lo demás queda como texto libre. Timeout interno de 10 s.
//
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DraftPurchaseOrderRequest  true  "request"
// @Success      200   {object}  dto.PurchaseOrderDraft
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/draft-purchase-order [post]
func (h *AIHandler) DraftPurchaseOrder(c *fiber.Ctx) error {
	var req dto.DraftPurchaseOrderRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.DraftPurchaseOrder(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SuggestSuppliers godoc
// @Summary      Sugerir proveedores con IA
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SuggestSuppliersRequest  true  "need"
// @Success      200   {object}  dto.SuggestSuppliersResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/suggest-suppliers [post]
func (h *AIHandler) SuggestSuppliers(c *fiber.Ctx) error {
	var req dto.SuggestSuppliersRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.SuggestSuppliers(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
