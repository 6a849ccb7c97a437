package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/application/purchasing"
	"github.com/jhoicas/orderflow-api/internal/application/usecase"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/lock"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/orderflow-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/orderflow-api/pkg/jwt"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

type outbox struct {
	mu   sync.Mutex
	sent []ports.ApprovalNotification
}

func (o *outbox) SendApprovalRequest(_ context.Context, n ports.ApprovalNotification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, n)
	return nil
}

func (o *outbox) lastToken(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.sent)
	url := o.sent[len(o.sent)-1].ApprovalURL
	return url[strings.LastIndex(url, "/")+1:]
}

type api struct {
	app    *fiber.App
	stores repository.Stores
	outbox *outbox
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	stores := store.Stores()
	locker := lock.NewLocalLocker()
	box := &outbox{}
	signer := pkgjwt.ApprovalSigner{Secret: testJWTSecret, Issuer: testIssuer, TTL: time.Hour}

	catalog := inventory.NewCatalogUseCase(store, locker, stores)
	lifecycle := purchasing.NewLifecycleUseCase(store, locker, stores, box, signer,
		purchasing.LifecycleConfig{PublicURL: "http://localhost:8080", ApproverEmail: "aprobador@example.com"}, logger.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog:    catalog,
		Transfer:   inventory.NewTransferUseCase(store, locker),
		Despatch:   inventory.NewDespatchUseCase(store, locker, stores),
		Lifecycle:  lifecycle,
		Reception:  purchasing.NewReceptionUseCase(store, locker, logger.Nop()),
		LocationUC: usecase.NewLocationUseCase(stores.Locations, store),
		SupplierUC: usecase.NewSupplierUseCase(stores.Suppliers),
		ClientUC:   usecase.NewClientUseCase(stores.Clients, stores.Projects),
		ProjectUC:  usecase.NewProjectUseCase(stores.Projects, stores.Clients),
		Documents:  usecase.NewDocumentUseCase(stores, pdf.NewMarotoRenderer("WINFIN")),
		Export:     usecase.NewExportUseCase(lifecycle, catalog, xlsx.NewExporter()),
		Metrics:    metrics.New(),
		JWTSecret:  testJWTSecret,
	})

	require.NoError(t, stores.Suppliers.Create(ctx, &entity.Supplier{ID: "S1", Name: "Proveedor Uno"}))
	require.NoError(t, stores.Projects.Create(ctx, &entity.Project{ID: "P1", Name: "Obra Norte", Status: entity.ProjectStatusActive}))
	for _, id := range []string{"L1", "L2"} {
		require.NoError(t, stores.Locations.Create(ctx, &entity.Location{ID: id, Name: "Ubicación " + id, Type: entity.LocationTypePhysical}))
	}
	require.NoError(t, stores.Items.Create(ctx, &entity.InventoryItem{ID: "X", SKU: "SKU-X", Name: "Cable", Type: entity.ItemTypeSimple}))
	return &api{app: app, stores: stores, outbox: box}
}

func (a *api) do(t *testing.T, method, path, role string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func TestRouter_HealthAndAuth(t *testing.T) {
	a := newAPI(t)
	resp, _ := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PurchaseOrderFlow(t *testing.T) {
	a := newAPI(t)
	create := map[string]interface{}{
		"supplier_id": "S1",
		"project_id":  "P1",
		"items":       []map[string]interface{}{{"item_id": "X", "quantity": 10, "price": 2, "type": "Material"}},
	}

	resp, _ := a.do(t, http.MethodPost, "/api/purchase-orders", apphttp.RoleBodeguero, create)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := a.do(t, http.MethodPost, "/api/purchase-orders", apphttp.RoleCompras, create)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var order dto.PurchaseOrderResponse
	require.NoError(t, json.Unmarshal(body, &order))
	assert.True(t, strings.HasPrefix(order.OrderNumber, "WF-PO-"))
	assert.Equal(t, string(entity.OrderStatusPendingApproval), order.Status)

	// Enlace público de aprobación.
	token := a.outbox.lastToken(t)
	resp, body = a.do(t, http.MethodGet, "/api/approvals/"+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = a.do(t, http.MethodPost, "/api/approvals/"+token, "", map[string]string{"action": "approve"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, _ = a.do(t, http.MethodGet, "/api/approvals/not-a-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = a.do(t, http.MethodPost, "/api/purchase-orders/"+order.ID+"/transition", apphttp.RoleCompras,
		map[string]string{"status": string(entity.OrderStatusSentToSupplier)})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// Rechazar ya no es legal.
	resp, body = a.do(t, http.MethodPost, "/api/purchase-orders/"+order.ID+"/reject", apphttp.RoleAdmin, map[string]string{"reason": "tarde"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_TRANSITION")

	resp, body = a.do(t, http.MethodPost, "/api/purchase-orders/"+order.ID+"/receptions", apphttp.RoleBodeguero, map[string]interface{}{
		"location_id":    "L1",
		"received_items": []map[string]interface{}{{"item_id": "X", "quantity": 6}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var rec dto.ReceptionResponse
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.True(t, rec.IsPartial)
	assert.Equal(t, string(entity.OrderStatusPartiallyReceived), rec.Order.Status)
	require.NotNil(t, rec.Backorder)
	require.Len(t, rec.Backorder.Items, 1)
	assert.True(t, rec.Backorder.Items[0].Quantity.Equal(decimal.NewFromInt(4)))

	stock, err := a.stores.Stock.Get(context.Background(), "X", "L1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(6)))

	resp, body = a.do(t, http.MethodGet, "/api/purchase-orders/"+order.ID+"/pdf", apphttp.RoleCompras, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, _ = a.do(t, http.MethodGet, "/api/purchase-orders/export.xlsx", apphttp.RoleCompras, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ErrorMapping(t *testing.T) {
	a := newAPI(t)

	// Sin stock en el origen.
	resp, body := a.do(t, http.MethodPost, "/api/inventory/transfers", apphttp.RoleBodeguero, map[string]interface{}{
		"item_id": "X", "from_location_id": "L1", "to_location_id": "L2", "quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")

	// Cantidad no positiva: la rechaza el validador.
	resp, body = a.do(t, http.MethodPost, "/api/inventory/transfers", apphttp.RoleBodeguero, map[string]interface{}{
		"item_id": "X", "from_location_id": "L1", "to_location_id": "L2", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")

	resp, body = a.do(t, http.MethodGet, "/api/purchase-orders/nope", apphttp.RoleCompras, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")

	resp, _ = a.do(t, http.MethodGet, "/api/inventory/movements?from=ayer", apphttp.RoleBodeguero, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Una ubicación con stock no se puede borrar.
	require.NoError(t, a.stores.Stock.Increase(context.Background(), "X", "L1", decimal.NewFromInt(3)))
	resp, body = a.do(t, http.MethodDelete, "/api/locations/L1", apphttp.RoleBodeguero, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "CONFLICT")
}

func TestRouter_DeliveryNote(t *testing.T) {
	a := newAPI(t)
	require.NoError(t, a.stores.Stock.Increase(context.Background(), "X", "L1", decimal.NewFromInt(5)))

	resp, body := a.do(t, http.MethodPost, "/api/delivery-notes", apphttp.RoleBodeguero, map[string]interface{}{
		"project_id":  "P1",
		"location_id": "L1",
		"items":       []map[string]interface{}{{"item_id": "X", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var note dto.DeliveryNoteResponse
	require.NoError(t, json.Unmarshal(body, &note))

	resp, body = a.do(t, http.MethodGet, "/api/delivery-notes/"+note.ID+"/pdf", apphttp.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = a.do(t, http.MethodPost, "/api/delivery-notes/"+note.ID+"/deliver", apphttp.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), entity.DeliveryStatusDelivered)
}
