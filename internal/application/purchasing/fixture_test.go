package purchasing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/application/purchasing"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/lock"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/orderflow-api/pkg/jwt"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []ports.ApprovalNotification
}

func (n *fakeNotifier) SendApprovalRequest(_ context.Context, msg ports.ApprovalNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type fixture struct {
	ctx       context.Context
	stores    repository.Stores
	notifier  *fakeNotifier
	signer    jwt.ApprovalSigner
	lifecycle *purchasing.LifecycleUseCase
	reception *purchasing.ReceptionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	locker := lock.NewLocalLocker()
	f := &fixture{
		ctx:      context.Background(),
		stores:   store.Stores(),
		notifier: &fakeNotifier{},
		signer:   jwt.ApprovalSigner{Secret: "test-secret", Issuer: "orderflow", TTL: time.Hour},
	}
	f.lifecycle = purchasing.NewLifecycleUseCase(store, locker, f.stores, f.notifier, f.signer,
		purchasing.LifecycleConfig{PublicURL: "https://erp.example.com/", ApproverEmail: "aprobador@example.com"}, logger.Nop())
	f.reception = purchasing.NewReceptionUseCase(store, locker, logger.Nop())

	require.NoError(t, f.stores.Suppliers.Create(f.ctx, &entity.Supplier{ID: "S1", Name: "Proveedor Uno"}))
	require.NoError(t, f.stores.Projects.Create(f.ctx, &entity.Project{ID: "P1", Name: "Obra Norte", Status: entity.ProjectStatusActive}))
	require.NoError(t, f.stores.Locations.Create(f.ctx, &entity.Location{ID: "L1", Name: "Bodega", Type: entity.LocationTypePhysical}))
	for _, id := range []string{"X", "Y"} {
		require.NoError(t, f.stores.Items.Create(f.ctx, &entity.InventoryItem{
			ID: id, SKU: "SKU-" + id, Name: "Artículo " + id, Type: entity.ItemTypeSimple, UnitCost: dec("1"),
		}))
	}
	return f
}

func (f *fixture) createOrder(t *testing.T, lines ...dto.OrderLineDTO) *dto.PurchaseOrderResponse {
	t.Helper()
	o, err := f.lifecycle.Create(f.ctx, "u1", dto.CreatePurchaseOrderRequest{SupplierID: "S1", ProjectID: "P1", Items: lines})
	require.NoError(t, err)
	return o
}

// sentOrder crea la orden y la lleva hasta Enviada al Proveedor.
func (f *fixture) sentOrder(t *testing.T, lines ...dto.OrderLineDTO) *dto.PurchaseOrderResponse {
	t.Helper()
	o := f.createOrder(t, lines...)
	_, err := f.lifecycle.Approve(f.ctx, o.ID, "ok")
	require.NoError(t, err)
	o, err = f.lifecycle.Transition(f.ctx, o.ID, entity.OrderStatusSentToSupplier, "")
	require.NoError(t, err)
	return o
}

func (f *fixture) qty(t *testing.T, item string) decimal.Decimal {
	t.Helper()
	s, err := f.stores.Stock.Get(f.ctx, item, "L1")
	require.NoError(t, err)
	return s.Quantity
}

func material(item, qty, price string) dto.OrderLineDTO {
	return dto.OrderLineDTO{ItemID: item, Quantity: dec(qty), Price: dec(price), Type: entity.LineTypeMaterial}
}

var errSMTP = errors.New("smtp caído")
