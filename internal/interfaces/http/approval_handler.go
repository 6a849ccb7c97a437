package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/purchasing"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
)

// ApprovalHandler endpoints públicos del enlace de aprobación; el token firmado es la credencial.
type ApprovalHandler struct {
	lifecycle *purchasing.LifecycleUseCase
	metrics   *metrics.Metrics
}

// NewApprovalHandler construye el handler. m puede ser nil.
func NewApprovalHandler(lifecycle *purchasing.LifecycleUseCase, m *metrics.Metrics) *ApprovalHandler {
	return &ApprovalHandler{lifecycle: lifecycle, metrics: m}
}

// Summary godoc
// @Summary      Resumen de la orden a aprobar
// @Tags         approvals
// @Produce      json
// @Param        token  path  string  true  "Token del enlace"
// @Success      200    {object}  dto.ApprovalSummaryResponse
// @Failure      401    {object}  dto.ErrorResponse
// @Router       /api/approvals/{token} [get]
func (h *ApprovalHandler) Summary(c *fiber.Ctx) error {
	out, err := h.lifecycle.ApprovalSummary(c.Context(), c.Params("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Act godoc
// @Summary      Aprobar o rechazar desde el enlace
// @Description  Repetir la misma acción sobre una orden ya resuelta devuelve la orden sin cambios.
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        token  path  string                     true  "Token del enlace"
// @Param        body   body  dto.ApprovalActionRequest  true  "action (approve | reject), reason"
// @Success      200    {object}  dto.PurchaseOrderResponse
// @Failure      401    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/approvals/{token} [post]
func (h *ApprovalHandler) Act(c *fiber.Ctx) error {
	var in dto.ApprovalActionRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.lifecycle.HandleApprovalAction(c.Context(), c.Params("token"), in.Action, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordTransition(out.Status)
	return c.JSON(out)
}
