package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
)

// DeliveryNoteHandler despachos a proyecto.
type DeliveryNoteHandler struct {
	despatch  *inventory.DespatchUseCase
	documents *usecase.DocumentUseCase
	metrics   *metrics.Metrics
}

// NewDeliveryNoteHandler construye el handler. m puede ser nil.
func NewDeliveryNoteHandler(despatch *inventory.DespatchUseCase, documents *usecase.DocumentUseCase, m *metrics.Metrics) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{despatch: despatch, documents: documents, metrics: m}
}

// Create godoc
// @Summary      Crear nota de entrega
// @Description  Descuenta el stock de la ubicación de origen; los kits se descuentan por sus componentes.
//
//	Si algún componente no alcanza no se descuenta nada (409).
//
// @Tags         delivery-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryNoteRequest  true  "Nota"
// @Success      201   {object}  dto.DeliveryNoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/delivery-notes [post]
func (h *DeliveryNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryNoteRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.despatch.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordStockMovement(entity.MovementTypeDESPATCH, len(out.Items))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener nota de entrega
// @Tags         delivery-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Router       /api/delivery-notes/{id} [get]
func (h *DeliveryNoteHandler) GetByID(c *fiber.Ctx) error {
	note, err := h.despatch.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToDeliveryNoteResponse(note))
}

// List acepta ?project_id= para filtrar.
func (h *DeliveryNoteHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.despatch.List(c.Context(), c.Query("project_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deliver godoc
// @Summary      Marcar nota como entregada
// @Tags         delivery-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Router       /api/delivery-notes/{id}/deliver [post]
func (h *DeliveryNoteHandler) Deliver(c *fiber.Ctx) error {
	out, err := h.despatch.MarkDelivered(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Imprimir nota de entrega
// @Tags         delivery-notes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la nota"
// @Success      200
// @Router       /api/delivery-notes/{id}/pdf [get]
func (h *DeliveryNoteHandler) PDF(c *fiber.Ctx) error {
	body, name, err := h.documents.DeliveryNotePDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, body)
}
