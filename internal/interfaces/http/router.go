package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/application/purchasing"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router. AIUC y Metrics son opcionales.
type RouterDeps struct {
	Catalog    *inventory.CatalogUseCase
	Transfer   *inventory.TransferUseCase
	Despatch   *inventory.DespatchUseCase
	Lifecycle  *purchasing.LifecycleUseCase
	Reception  *purchasing.ReceptionUseCase
	LocationUC *usecase.LocationUseCase
	SupplierUC *usecase.SupplierUseCase
	ClientUC   *usecase.ClientUseCase
	ProjectUC  *usecase.ProjectUseCase
	Documents  *usecase.DocumentUseCase
	Export     *usecase.ExportUseCase
	AIUC       *usecase.AIUseCase
	Metrics    *metrics.Metrics
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Enlaces de aprobación (público, el token firmado es la credencial)
	approvals := NewApprovalHandler(deps.Lifecycle, deps.Metrics)
	api.Get("/approvals/:token", approvals.Summary)
	api.Post("/approvals/:token", approvals.Act)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	warehouse := RequireRole(RoleBodeguero)
	buyer := RequireRole(RoleCompras)
	anyRole := RequireRole(RoleCompras, RoleBodeguero)

	// Artículos
	items := protected.Group("/items", anyRole)
	itemHandler := NewItemHandler(deps.Catalog)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Get("/:id/stock", itemHandler.Stock)
	items.Post("/", warehouse, itemHandler.Create)
	items.Put("/:id", warehouse, itemHandler.Update)
	items.Delete("/:id", warehouse, itemHandler.Delete)

	// Ubicaciones
	locations := protected.Group("/locations", anyRole)
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", warehouse, locationHandler.Create)
	locations.Put("/:id", warehouse, locationHandler.Update)
	locations.Delete("/:id", warehouse, locationHandler.Delete)

	// Datos maestros
	md := NewMasterDataHandler(deps.SupplierUC, deps.ClientUC, deps.ProjectUC)
	suppliers := protected.Group("/suppliers", anyRole)
	suppliers.Get("/", md.ListSuppliers)
	suppliers.Get("/:id", md.GetSupplier)
	suppliers.Post("/", buyer, md.CreateSupplier)
	suppliers.Put("/:id", buyer, md.UpdateSupplier)
	suppliers.Delete("/:id", buyer, md.DeleteSupplier)

	clients := protected.Group("/clients", anyRole)
	clients.Get("/", md.ListClients)
	clients.Get("/:id", md.GetClient)
	clients.Post("/", buyer, md.CreateClient)
	clients.Put("/:id", buyer, md.UpdateClient)
	clients.Delete("/:id", buyer, md.DeleteClient)

	projects := protected.Group("/projects", anyRole)
	projects.Get("/", md.ListProjects)
	projects.Get("/:id", md.GetProject)
	projects.Post("/", buyer, md.CreateProject)
	projects.Put("/:id", buyer, md.UpdateProject)
	projects.Delete("/:id", buyer, md.DeleteProject)

	// Inventario
	inv := protected.Group("/inventory", anyRole)
	invHandler := NewInventoryHandler(deps.Transfer, deps.Catalog, deps.Export, deps.Metrics)
	inv.Get("/movements", invHandler.Movements)
	inv.Get("/export.xlsx", invHandler.ExportStock)
	inv.Post("/transfers", warehouse, invHandler.Transfer)
	inv.Post("/adjustments", warehouse, invHandler.Adjust)

	// Órdenes de compra
	orders := protected.Group("/purchase-orders", anyRole)
	po := NewPurchaseOrderHandler(deps.Lifecycle, deps.Reception, deps.Documents, deps.Export, deps.Metrics)
	orders.Get("/", po.List)
	orders.Get("/export.xlsx", po.Export)
	orders.Get("/:id", po.GetByID)
	orders.Get("/:id/pdf", po.PDF)
	orders.Post("/", buyer, po.Create)
	orders.Put("/:id", buyer, po.Update)
	orders.Delete("/:id", buyer, po.Delete)
	orders.Post("/:id/transition", buyer, po.Transition)
	orders.Post("/:id/duplicate", buyer, po.Duplicate)
	orders.Post("/:id/approve", RequireRole(), po.Approve)
	orders.Post("/:id/reject", RequireRole(), po.Reject)
	orders.Post("/:id/receptions", warehouse, po.Receive)

	// Notas de entrega
	notes := protected.Group("/delivery-notes", anyRole)
	dn := NewDeliveryNoteHandler(deps.Despatch, deps.Documents, deps.Metrics)
	notes.Get("/", dn.List)
	notes.Get("/:id", dn.GetByID)
	notes.Get("/:id/pdf", dn.PDF)
	notes.Post("/", warehouse, dn.Create)
	notes.Post("/:id/deliver", warehouse, dn.Deliver)

	// IA (opcional)
	if deps.AIUC != nil {
		ai := protected.Group("/ai", buyer)
		aiHandler := NewAIHandler(deps.AIUC)
		ai.Post("/draft-purchase-order", aiHandler.DraftPurchaseOrder)
		ai.Post("/suggest-suppliers", aiHandler.SuggestSuppliers)
	}
}
