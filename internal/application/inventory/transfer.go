package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// TransferUseCase traslada stock de un artículo simple entre dos ubicaciones.
type TransferUseCase struct {
	tx     ports.TxRunner
	locker ports.KeyedLocker
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(tx ports.TxRunner, locker ports.KeyedLocker) *TransferUseCase {
	return &TransferUseCase{tx: tx, locker: locker}
}

// Transfer mueve la cantidad en una sola transacción: -q en origen, +q en destino.
// Si el origen no alcanza no cambia nada.
func (uc *TransferUseCase) Transfer(ctx context.Context, userID string, in dto.TransferRequest) error {
	if in.ItemID == "" {
		return fmt.Errorf("%w: item_id requerido", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if in.FromLocationID == in.ToLocationID {
		return fmt.Errorf("%w: origen y destino son la misma ubicación", domain.ErrInvalidInput)
	}

	deltas := []StockDelta{
		{ItemID: in.ItemID, LocationID: in.FromLocationID, Quantity: in.Quantity.Neg()},
		{ItemID: in.ItemID, LocationID: in.ToLocationID, Quantity: in.Quantity},
	}
	release, err := uc.locker.Acquire(ctx, StockLockKeys(deltas)...)
	if err != nil {
		return err
	}
	defer release()

	return uc.tx.Run(ctx, func(s repository.Stores) error {
		item, err := s.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, in.ItemID)
		}
		if item.Type != entity.ItemTypeSimple {
			return fmt.Errorf("%w: solo se trasladan artículos simples", domain.ErrInvalidInput)
		}
		if _, err := RequireLocation(ctx, s.Locations, in.FromLocationID); err != nil {
			return err
		}
		if _, err := RequireLocation(ctx, s.Locations, in.ToLocationID); err != nil {
			return err
		}
		return ApplyStockDeltas(ctx, s, deltas, MovementRef{
			Type:          entity.MovementTypeTRANSFER,
			Reference:     in.FromLocationID + "->" + in.ToLocationID,
			UserID:        userID,
			TransactionID: uuid.New().String(),
		})
	})
}
