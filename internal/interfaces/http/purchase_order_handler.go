package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/purchasing"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
)

// PurchaseOrderHandler ciclo de vida, recepción, impresión y exportación de órdenes de compra.
type PurchaseOrderHandler struct {
	lifecycle *purchasing.LifecycleUseCase
	reception *purchasing.ReceptionUseCase
	documents *usecase.DocumentUseCase
	export    *usecase.ExportUseCase
	metrics   *metrics.Metrics
}

// NewPurchaseOrderHandler construye el handler. m puede ser nil.
func NewPurchaseOrderHandler(
	lifecycle *purchasing.LifecycleUseCase,
	reception *purchasing.ReceptionUseCase,
	documents *usecase.DocumentUseCase,
	export *usecase.ExportUseCase,
	m *metrics.Metrics,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{lifecycle: lifecycle, reception: reception, documents: documents, export: export, metrics: m}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  Asigna número WF-PO-<año>-####. Si queda pendiente de aprobación se notifica al aprobador;
//
//	si la notificación falla la orden no se conserva (503).
//
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Orden"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.lifecycle.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordOrderCreated()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.lifecycle.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Estado exacto"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        project_id   query  string  false  "Proyecto"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	filter := orderFilter(c)
	filter.Limit, filter.Offset = limit, offset
	out, err := h.lifecycle.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar orden pendiente de aprobación
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la orden"
// @Param        body  body  dto.UpdatePurchaseOrderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseOrderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.lifecycle.UpdatePending(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden de compra
// @Description  No revierte el stock ya recibido.
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Router       /api/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transition godoc
// @Summary      Cambiar estado de la orden
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la orden"
// @Param        body  body  dto.TransitionRequest  true  "status, comment"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/transition [post]
func (h *PurchaseOrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.lifecycle.Transition(c.Context(), c.Params("id"), entity.OrderStatus(in.Status), in.Comment)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordTransition(out.Status)
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar orden
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la orden"
// @Param        body  body  dto.ApproveRequest  false "comment"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveRequest
	if len(c.Body()) > 0 {
		if ok, err := bindAndValidate(c, &in); !ok {
			return err
		}
	}
	out, err := h.lifecycle.Approve(c.Context(), c.Params("id"), in.Comment)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordTransition(out.Status)
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar orden
// @Description  Solo desde "Pendiente de Aprobación"; el motivo es obligatorio.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la orden"
// @Param        body  body  dto.RejectRequest  true  "reason"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.lifecycle.Reject(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordTransition(out.Status)
	return c.JSON(out)
}

// Duplicate godoc
// @Summary      Duplicar orden
// @Description  Crea una orden nueva con las mismas líneas, número nuevo e historial propio.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      201  {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders/{id}/duplicate [post]
func (h *PurchaseOrderHandler) Duplicate(c *fiber.Ctx) error {
	out, err := h.lifecycle.Duplicate(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordOrderCreated()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive godoc
// @Summary      Registrar recepción
// @Description  Suma el stock recibido en la ubicación. Si falta mercancía la orden queda
//
//	"Recibida Parcialmente" y se crea un backorder con lo pendiente.
//
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la orden"
// @Param        body  body  dto.ReceptionRequest  true  "location_id, received_items"
// @Success      200   {object}  dto.ReceptionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receptions [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceptionRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.reception.Receive(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordReception(out.IsPartial)
	h.metrics.RecordStockMovement(entity.MovementTypeRECEPTION, len(in.ReceivedItems))
	if out.Backorder != nil {
		h.metrics.RecordOrderCreated()
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Imprimir orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) PDF(c *fiber.Ctx) error {
	body, name, err := h.documents.PurchaseOrderPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, body)
}

// Export godoc
// @Summary      Exportar órdenes a XLSX
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status       query  string  false  "Estado exacto"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        project_id   query  string  false  "Proyecto"
// @Success      200
// @Router       /api/purchase-orders/export.xlsx [get]
func (h *PurchaseOrderHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.export.ExportOrders(c.Context(), orderFilter(c), &buf); err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xlsxContentType, "ordenes.xlsx", buf.Bytes())
}

func orderFilter(c *fiber.Ctx) repository.OrderFilter {
	return repository.OrderFilter{
		Status:     entity.OrderStatus(c.Query("status")),
		SupplierID: c.Query("supplier_id"),
		ProjectID:  c.Query("project_id"),
	}
}
