package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

func transferFixture(t *testing.T) (*fixture, *inventory.TransferUseCase) {
	f := newFixture(t)
	f.simple(t, "X", "1")
	f.location(t, "A")
	f.location(t, "B")
	return f, inventory.NewTransferUseCase(f.store, f.locker)
}

func TestTransfer_ConservesStock(t *testing.T) {
	f, uc := transferFixture(t)
	f.setStock(t, "X", "A", "10")

	err := uc.Transfer(f.ctx, "u1", dto.TransferRequest{ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: dec("4")})
	require.NoError(t, err)

	assert.True(t, f.qty(t, "X", "A").Equal(dec("6")))
	assert.True(t, f.qty(t, "X", "B").Equal(dec("4")))
	assert.True(t, f.qty(t, "X", "A").Add(f.qty(t, "X", "B")).Equal(dec("10")))

	movs, err := f.stores.Movements.List(f.ctx, repository.MovementFilter{ItemID: "X"})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, movs[0].TransactionID, movs[1].TransactionID)
}

func TestTransfer_InsufficientLeavesBothUnchanged(t *testing.T) {
	f, uc := transferFixture(t)
	f.setStock(t, "X", "A", "3")
	f.setStock(t, "X", "B", "1")

	err := uc.Transfer(f.ctx, "u1", dto.TransferRequest{ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: dec("5")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, f.qty(t, "X", "A").Equal(dec("3")))
	assert.True(t, f.qty(t, "X", "B").Equal(dec("1")))
	movs, _ := f.stores.Movements.List(f.ctx, repository.MovementFilter{})
	assert.Empty(t, movs)
}

func TestTransfer_PrunesEmptySource(t *testing.T) {
	f, uc := transferFixture(t)
	f.setStock(t, "X", "A", "2")

	require.NoError(t, uc.Transfer(f.ctx, "u1", dto.TransferRequest{ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: dec("2")}))
	assert.False(t, f.hasRecord(t, "X", "A"))
	assert.True(t, f.qty(t, "X", "B").Equal(dec("2")))
}

func TestTransfer_Validation(t *testing.T) {
	f, uc := transferFixture(t)
	f.kit(t, "K", comp("X", "1"))
	f.setStock(t, "X", "A", "5")

	cases := []struct {
		name string
		in   dto.TransferRequest
		want error
	}{
		{"misma ubicación", dto.TransferRequest{ItemID: "X", FromLocationID: "A", ToLocationID: "A", Quantity: dec("1")}, domain.ErrInvalidInput},
		{"cantidad cero", dto.TransferRequest{ItemID: "X", FromLocationID: "A", ToLocationID: "B", Quantity: dec("0")}, domain.ErrInvalidInput},
		{"kit", dto.TransferRequest{ItemID: "K", FromLocationID: "A", ToLocationID: "B", Quantity: dec("1")}, domain.ErrInvalidInput},
		{"artículo inexistente", dto.TransferRequest{ItemID: "nope", FromLocationID: "A", ToLocationID: "B", Quantity: dec("1")}, domain.ErrNotFound},
		{"ubicación inexistente", dto.TransferRequest{ItemID: "X", FromLocationID: "A", ToLocationID: "Z", Quantity: dec("1")}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.Transfer(f.ctx, "u1", tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, f.qty(t, "X", "A").Equal(dec("5")))
		})
	}
}
