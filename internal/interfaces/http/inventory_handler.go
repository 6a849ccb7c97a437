package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler traslados, ajustes, diario de movimientos y exportación de existencias.
type InventoryHandler struct {
	transfer *inventory.TransferUseCase
	catalog  *inventory.CatalogUseCase
	export   *usecase.ExportUseCase
	metrics  *metrics.Metrics
}

// NewInventoryHandler construye el handler. m puede ser nil.
func NewInventoryHandler(transfer *inventory.TransferUseCase, catalog *inventory.CatalogUseCase, export *usecase.ExportUseCase, m *metrics.Metrics) *InventoryHandler {
	return &InventoryHandler{transfer: transfer, catalog: catalog, export: export, metrics: m}
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Atómico: descuenta del origen y suma al destino, o no cambia nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, from_location_id, to_location_id, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.transfer.Transfer(c.Context(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordStockMovement(entity.MovementTypeTRANSFER, 2)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado registrado"})
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  Fija la cantidad absoluta de un artículo en una ubicación.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "item_id, location_id, quantity, reason"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.catalog.AdjustStock(c.Context(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	h.metrics.RecordStockMovement(entity.MovementTypeADJUSTMENT, 1)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "ajuste registrado"})
}

// Movements godoc
// @Summary      Diario de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  false  "Filtrar por artículo"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	limit, offset := page(c)
	filter := repository.MovementFilter{
		ItemID:     c.Query("item_id"),
		LocationID: c.Query("location_id"),
		Limit:      limit,
		Offset:     offset,
	}
	var err error
	if filter.From, err = parseDate(c.Query("from"), false); err != nil {
		return writeError(c, err)
	}
	if filter.To, err = parseDate(c.Query("to"), true); err != nil {
		return writeError(c, err)
	}
	out, err := h.catalog.ListMovements(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportStock godoc
// @Summary      Exportar existencias a XLSX
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/inventory/export.xlsx [get]
func (h *InventoryHandler) ExportStock(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.export.ExportStock(c.Context(), &buf); err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xlsxContentType, "existencias.xlsx", buf.Bytes())
}

// parseDate acepta YYYY-MM-DD o RFC3339. endOfDay lleva la fecha simple al último instante del día.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func sendFile(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}
