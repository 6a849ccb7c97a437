//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/lock"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/orderflow-api/pkg/config"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/...

type env struct {
	ctx    context.Context
	tx     *postgres.TxRunner
	stores repository.Stores
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("orderflow_test"),
		tcpostgres.WithUsername("orderflow"),
		tcpostgres.WithPassword("orderflow"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	// El esquema es idempotente.
	require.NoError(t, postgres.Migrate(ctx, pool))

	return &env{ctx: ctx, tx: postgres.NewTxRunner(pool, 5*time.Second, 3, logger.Nop()), stores: postgres.NewStores(pool)}
}

func TestPostgres_ItemsWithRecipe(t *testing.T) {
	e := setup(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, e.stores.Items.Create(e.ctx, &entity.InventoryItem{ID: "A", SKU: "A-1", Name: "Cable", Type: entity.ItemTypeSimple, UnitCost: decimal.RequireFromString("2.5"), CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, e.stores.Items.Create(e.ctx, &entity.InventoryItem{
		ID: "K", SKU: "K-1", Name: "Kit", Type: entity.ItemTypeComposite, CreatedAt: now, UpdatedAt: now,
		Components: []entity.KitComponent{{ComponentItemID: "A", Quantity: decimal.NewFromInt(3)}},
	}))

	err := e.stores.Items.Create(e.ctx, &entity.InventoryItem{ID: "B", SKU: "A-1", Name: "Otro", Type: entity.ItemTypeSimple, CreatedAt: now, UpdatedAt: now})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	kit, err := e.stores.Items.GetByID(e.ctx, "K")
	require.NoError(t, err)
	require.Len(t, kit.Components, 1)
	assert.True(t, kit.Components[0].Quantity.Equal(decimal.NewFromInt(3)))

	using, err := e.stores.Items.ListCompositesUsing(e.ctx, "A")
	require.NoError(t, err)
	require.Len(t, using, 1)
	assert.Equal(t, "K", using[0].ID)

	missing, err := e.stores.Items.GetByID(e.ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgres_TransferIsAtomicAndSerialized(t *testing.T) {
	e := setup(t)
	now := time.Now()
	require.NoError(t, e.stores.Items.Create(e.ctx, &entity.InventoryItem{ID: "X", SKU: "X", Name: "X", Type: entity.ItemTypeSimple, CreatedAt: now, UpdatedAt: now}))
	for _, id := range []string{"L1", "L2"} {
		require.NoError(t, e.stores.Locations.Create(e.ctx, &entity.Location{ID: id, Name: id, Type: entity.LocationTypePhysical, CreatedAt: now, UpdatedAt: now}))
	}
	require.NoError(t, e.stores.Stock.Increase(e.ctx, "X", "L1", decimal.NewFromInt(10)))

	uc := inventory.NewTransferUseCase(e.tx, lock.NewLocalLocker())
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = uc.Transfer(e.ctx, "u1", dto.TransferRequest{ItemID: "X", FromLocationID: "L1", ToLocationID: "L2", Quantity: decimal.NewFromInt(3)})
		}(i)
	}
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "got %v", err)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	src, err := e.stores.Stock.Get(e.ctx, "X", "L1")
	require.NoError(t, err)
	dst, err := e.stores.Stock.Get(e.ctx, "X", "L2")
	require.NoError(t, err)
	assert.True(t, src.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, dst.Quantity.Equal(decimal.NewFromInt(9)))
}

func TestPostgres_RollbackOnError(t *testing.T) {
	e := setup(t)
	boom := errors.New("boom")
	err := e.tx.Run(e.ctx, func(s repository.Stores) error {
		if err := s.Stock.Increase(e.ctx, "X", "L1", decimal.NewFromInt(5)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, err := e.stores.Stock.Get(e.ctx, "X", "L1")
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
}

func TestPostgres_CountersAndOrders(t *testing.T) {
	e := setup(t)
	for want := 1; want <= 3; want++ {
		n, err := e.stores.Counters.Next(e.ctx, repository.SeriesPurchaseOrder, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := e.stores.Counters.Next(e.ctx, repository.SeriesPurchaseOrder, 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	now := time.Now().UTC().Truncate(time.Microsecond)
	o := &entity.PurchaseOrder{
		ID: "O1", OrderNumber: "WF-PO-2026-0001", SupplierID: "S1", ProjectID: "P1",
		Items:     []entity.OrderLine{{ItemID: "X", ItemName: "X", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(2), Type: entity.LineTypeMaterial}},
		OrderDate: now, CreatedAt: now,
	}
	o.RecalculateTotal()
	o.AppendHistory(entity.OrderStatusPendingApproval, now, "Orden creada.")
	require.NoError(t, e.stores.Orders.Create(e.ctx, o))

	got, err := e.stores.Orders.GetByID(e.ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPendingApproval, got.Status)
	require.Len(t, got.StatusHistory, 1)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(20)))

	list, err := e.stores.Orders.List(e.ctx, repository.OrderFilter{Status: entity.OrderStatusApproved})
	require.NoError(t, err)
	assert.Empty(t, list)

	dup := o.Clone()
	dup.ID = "O2"
	assert.True(t, errors.Is(e.stores.Orders.Create(e.ctx, dup), domain.ErrDuplicate))
}
