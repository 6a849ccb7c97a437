package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
)

// MasterDataHandler proveedores, clientes y proyectos.
type MasterDataHandler struct {
	suppliers *usecase.SupplierUseCase
	clients   *usecase.ClientUseCase
	projects  *usecase.ProjectUseCase
}

// NewMasterDataHandler construye el handler.
func NewMasterDataHandler(suppliers *usecase.SupplierUseCase, clients *usecase.ClientUseCase, projects *usecase.ProjectUseCase) *MasterDataHandler {
	return &MasterDataHandler{suppliers: suppliers, clients: clients, projects: projects}
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "Proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Router       /api/suppliers [post]
func (h *MasterDataHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.suppliers.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MasterDataHandler) GetSupplier(c *fiber.Ctx) error {
	out, err := h.suppliers.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) ListSuppliers(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.suppliers.List(c.Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) UpdateSupplier(c *fiber.Ctx) error {
	var in dto.UpdateSupplierRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.suppliers.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) DeleteSupplier(c *fiber.Ctx) error {
	if err := h.suppliers.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CreateClient godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Cliente"
// @Success      201   {object}  dto.ClientResponse
// @Router       /api/clients [post]
func (h *MasterDataHandler) CreateClient(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.clients.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MasterDataHandler) GetClient(c *fiber.Ctx) error {
	out, err := h.clients.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) ListClients(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.clients.List(c.Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) UpdateClient(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.clients.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteClient godoc
// @Summary      Eliminar cliente
// @Description  Falla con 409 si el cliente tiene proyectos.
// @Tags         clients
// @Security     Bearer
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *MasterDataHandler) DeleteClient(c *fiber.Ctx) error {
	if err := h.clients.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Proyectos ─────────────────────────────────────────────────────────────────

// CreateProject godoc
// @Summary      Crear proyecto
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "Proyecto"
// @Success      201   {object}  dto.ProjectResponse
// @Router       /api/projects [post]
func (h *MasterDataHandler) CreateProject(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.projects.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MasterDataHandler) GetProject(c *fiber.Ctx) error {
	out, err := h.projects.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListProjects acepta ?client_id= para filtrar.
func (h *MasterDataHandler) ListProjects(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.projects.List(c.Context(), c.Query("client_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) UpdateProject(c *fiber.Ctx) error {
	var in dto.UpdateProjectRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.projects.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *MasterDataHandler) DeleteProject(c *fiber.Ctx) error {
	if err := h.projects.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
