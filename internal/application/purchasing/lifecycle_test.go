package purchasing_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/purchasing"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

func TestCreate_AssignsNumberHistoryAndNotifies(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, material("X", "10", "2.5"), dto.OrderLineDTO{ItemName: "Instalación", Quantity: dec("1"), Price: dec("100"), Type: entity.LineTypeService})

	assert.Equal(t, fmt.Sprintf("WF-PO-%d-0001", time.Now().Year()), o.OrderNumber)
	assert.Equal(t, string(entity.OrderStatusPendingApproval), o.Status)
	require.Len(t, o.StatusHistory, 1)
	assert.True(t, o.Total.Equal(dec("125")))
	assert.Equal(t, "Artículo X", o.Items[0].ItemName)
	assert.Equal(t, "Proveedor Uno", o.SupplierName)

	require.Len(t, f.notifier.sent, 1)
	msg := f.notifier.sent[0]
	assert.Equal(t, "aprobador@example.com", msg.Recipient)
	assert.Equal(t, o.OrderNumber, msg.OrderNumber)
	assert.Equal(t, "Obra Norte", msg.ProjectName)
	require.True(t, strings.HasPrefix(msg.ApprovalURL, "https://erp.example.com/api/approvals/"))

	token := strings.TrimPrefix(msg.ApprovalURL, "https://erp.example.com/api/approvals/")
	id, err := f.signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, o.ID, id)

	second := f.createOrder(t, material("X", "1", "1"))
	assert.Equal(t, fmt.Sprintf("WF-PO-%d-0002", time.Now().Year()), second.OrderNumber)
}

func TestCreate_NotifierFailureRemovesOrder(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errSMTP

	_, err := f.lifecycle.Create(f.ctx, "u1", dto.CreatePurchaseOrderRequest{SupplierID: "S1", ProjectID: "P1", Items: []dto.OrderLineDTO{material("X", "1", "1")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependencyFailure))
	assert.True(t, errors.Is(err, errSMTP))

	list, err := f.stores.Orders.List(f.ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []dto.CreatePurchaseOrderRequest{
		{SupplierID: "nope", ProjectID: "P1", Items: []dto.OrderLineDTO{material("X", "1", "1")}},
		{SupplierID: "S1", ProjectID: "nope", Items: []dto.OrderLineDTO{material("X", "1", "1")}},
		{SupplierID: "S1", ProjectID: "P1"},
		{SupplierID: "S1", ProjectID: "P1", Items: []dto.OrderLineDTO{material("X", "0", "1")}},
		{SupplierID: "S1", ProjectID: "P1", Items: []dto.OrderLineDTO{material("fantasma", "1", "1")}},
		{SupplierID: "S1", ProjectID: "P1", Items: []dto.OrderLineDTO{{Quantity: dec("1"), Type: entity.LineTypeService}}},
		{SupplierID: "S1", ProjectID: "P1", Status: "Inventado", Items: []dto.OrderLineDTO{material("X", "1", "1")}},
	}
	for i, in := range cases {
		_, err := f.lifecycle.Create(f.ctx, "u1", in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "caso %d: %v", i, err)
	}
	assert.Empty(t, f.notifier.sent)
}

func TestCreate_NonPendingStatusSkipsApproval(t *testing.T) {
	f := newFixture(t)
	o, err := f.lifecycle.Create(f.ctx, "u1", dto.CreatePurchaseOrderRequest{
		SupplierID: "S1", ProjectID: "P1", Status: string(entity.OrderStatusApproved),
		Items: []dto.OrderLineDTO{material("X", "1", "1")},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusApproved), o.Status)
	assert.Empty(t, f.notifier.sent)
}

func TestTransition_AppendsOneHistoryEntry(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, material("X", "1", "1"))

	approved, err := f.lifecycle.Approve(f.ctx, o.ID, "visto bueno")
	require.NoError(t, err)
	require.Len(t, approved.StatusHistory, 2)
	assert.Equal(t, "visto bueno", approved.StatusHistory[1].Comment)

	_, err = f.lifecycle.Transition(f.ctx, o.ID, entity.OrderStatusStored, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = f.lifecycle.Transition(f.ctx, o.ID, entity.OrderStatusReceived, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := f.lifecycle.Get(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, 2)
	assert.Equal(t, string(entity.OrderStatusApproved), got.Status)
}

func TestReject_OnlyFromPendingAndRequiresReason(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, material("X", "1", "1"))

	_, err := f.lifecycle.Reject(f.ctx, o.ID, "  ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	rejected, err := f.lifecycle.Reject(f.ctx, o.ID, "precio alto")
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusRejected), rejected.Status)
	assert.Equal(t, "precio alto", rejected.RejectionReason)

	other := f.createOrder(t, material("X", "1", "1"))
	_, err = f.lifecycle.Approve(f.ctx, other.ID, "")
	require.NoError(t, err)
	_, err = f.lifecycle.Reject(f.ctx, other.ID, "tarde")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestHandleApprovalAction(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, material("X", "1", "1"))
	token, err := f.signer.Issue(o.ID)
	require.NoError(t, err)

	summary, err := f.lifecycle.ApprovalSummary(f.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, summary.OrderNumber)

	first, err := f.lifecycle.HandleApprovalAction(f.ctx, token, purchasing.ActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusApproved), first.Status)

	again, err := f.lifecycle.HandleApprovalAction(f.ctx, token, purchasing.ActionApprove, "")
	require.NoError(t, err)
	assert.Len(t, again.StatusHistory, len(first.StatusHistory))

	_, err = f.lifecycle.HandleApprovalAction(f.ctx, token, purchasing.ActionReject, "cambio de opinión")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = f.lifecycle.HandleApprovalAction(f.ctx, "basura", purchasing.ActionApprove, "")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = f.lifecycle.HandleApprovalAction(f.ctx, token, "borrar", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDuplicate_GetsNewNumberAndFreshHistory(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, material("X", "3", "2"))
	_, err := f.lifecycle.Approve(f.ctx, o.ID, "")
	require.NoError(t, err)

	dup, err := f.lifecycle.Duplicate(f.ctx, "u2", o.ID)
	require.NoError(t, err)
	assert.NotEqual(t, o.ID, dup.ID)
	assert.NotEqual(t, o.OrderNumber, dup.OrderNumber)
	assert.Equal(t, string(entity.OrderStatusPendingApproval), dup.Status)
	assert.Len(t, dup.StatusHistory, 1)
	assert.True(t, dup.Total.Equal(o.Total))
	assert.Len(t, f.notifier.sent, 2)
}

func TestUpdatePending(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, material("X", "1", "1"))
	notes := "urgente"

	updated, err := f.lifecycle.UpdatePending(f.ctx, o.ID, dto.UpdatePurchaseOrderRequest{
		Items: []dto.OrderLineDTO{material("Y", "4", "5")},
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(dec("20")))
	assert.Equal(t, "urgente", updated.Notes)
	assert.Len(t, updated.StatusHistory, 1)

	_, err = f.lifecycle.Approve(f.ctx, o.ID, "")
	require.NoError(t, err)
	_, err = f.lifecycle.UpdatePending(f.ctx, o.ID, dto.UpdatePurchaseOrderRequest{Notes: &notes})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	o := f.createOrder(t, material("X", "1", "1"))

	require.NoError(t, f.lifecycle.Delete(f.ctx, o.ID))
	_, err := f.lifecycle.Get(f.ctx, o.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(f.lifecycle.Delete(f.ctx, o.ID), domain.ErrNotFound))
}

func TestListAndStream(t *testing.T) {
	f := newFixture(t)
	a := f.createOrder(t, material("X", "1", "1"))
	f.createOrder(t, material("X", "1", "1"))
	_, err := f.lifecycle.Approve(f.ctx, a.ID, "")
	require.NoError(t, err)

	list, err := f.lifecycle.List(f.ctx, repository.OrderFilter{Status: entity.OrderStatusApproved})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	_, err = f.lifecycle.List(f.ctx, repository.OrderFilter{Status: "Inventado"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var seen int
	require.NoError(t, f.lifecycle.Stream(f.ctx, repository.OrderFilter{}, func(dto.PurchaseOrderResponse) error {
		seen++
		return nil
	}))
	assert.Equal(t, 2, seen)

	stop := errors.New("alto")
	err = f.lifecycle.Stream(f.ctx, repository.OrderFilter{}, func(dto.PurchaseOrderResponse) error { return stop })
	assert.ErrorIs(t, err, stop)
}
