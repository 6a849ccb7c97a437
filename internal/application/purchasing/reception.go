package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	appinv "github.com/jhoicas/orderflow-api/internal/application/inventory"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	domaininv "github.com/jhoicas/orderflow-api/internal/domain/inventory"
	"github.com/jhoicas/orderflow-api/internal/domain/purchasing"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

// ReceptionUseCase registra la llegada de mercancía de una orden enviada al proveedor.
type ReceptionUseCase struct {
	tx     ports.TxRunner
	locker ports.KeyedLocker
	log    *logger.Logger
	now    func() time.Time
}

// NewReceptionUseCase construye el caso de uso.
func NewReceptionUseCase(tx ports.TxRunner, locker ports.KeyedLocker, log *logger.Logger) *ReceptionUseCase {
	return &ReceptionUseCase{tx: tx, locker: locker, log: log, now: time.Now}
}

// Receive ingresa lo recibido a la ubicación, cambia el estado de la orden y, si la recepción
// es parcial, crea el backorder con el remanente. Todo ocurre en una transacción con la
// orden bloqueada; una segunda recepción concurrente encuentra la orden ya recibida.
func (uc *ReceptionUseCase) Receive(ctx context.Context, userID, orderID string, in dto.ReceptionRequest) (*dto.ReceptionResponse, error) {
	received := make([]purchasing.ReceivedQty, 0, len(in.ReceivedItems))
	for _, r := range in.ReceivedItems {
		received = append(received, purchasing.ReceivedQty{ItemID: r.ItemID, Quantity: r.Quantity})
	}

	release, err := uc.locker.Acquire(ctx, OrderKey(orderID))
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		order, backorder *entity.PurchaseOrder
		partial          bool
	)
	now := uc.now()
	err = uc.tx.Run(ctx, func(s repository.Stores) error {
		o, err := s.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
		}
		if o.Status != entity.OrderStatusSentToSupplier {
			return fmt.Errorf("%w: la orden %s está en %q; solo se reciben órdenes enviadas al proveedor",
				domain.ErrInvalidTransition, o.OrderNumber, o.Status)
		}
		if _, err := appinv.RequireLocation(ctx, s.Locations, in.LocationID); err != nil {
			return err
		}
		plan, err := purchasing.PlanReception(o, received)
		if err != nil {
			return err
		}
		if in.IsPartial != nil && *in.IsPartial != plan.IsPartial {
			return fmt.Errorf("%w: is_partial=%t no coincide con lo recibido (%s de %s)",
				domain.ErrInvalidInput, *in.IsPartial, plan.TotalReceived, plan.TotalOrdered)
		}

		if err := uc.bookStock(ctx, s, o, plan, in.LocationID, userID, now); err != nil {
			return err
		}

		next := entity.OrderStatusReceived
		comment := "Recepción completa."
		if plan.IsPartial {
			next = entity.OrderStatusPartiallyReceived
			comment = "Recepción parcial."
			if len(plan.PendingItems) > 0 {
				bo, err := uc.createBackorder(ctx, s, o, plan.PendingItems, in.Notes, userID, now)
				if err != nil {
					return err
				}
				backorder = bo
				comment = fmt.Sprintf("Recepción parcial. Backorder %s (%s) creado.", bo.OrderNumber, bo.ID)
				o.BackorderIDs = append(o.BackorderIDs, bo.ID)
			}
		}
		if notes := strings.TrimSpace(in.Notes); notes != "" {
			comment += " " + notes
		}
		if err := purchasing.Transition(o, next, now, comment); err != nil {
			return err
		}
		if err := s.Orders.Update(ctx, o); err != nil {
			return err
		}
		order, partial = o, plan.IsPartial
		return nil
	})
	if err != nil {
		return nil, err
	}

	if backorder != nil {
		uc.log.Info().Str("order_id", order.ID).Str("order_number", order.OrderNumber).
			Str("backorder_id", backorder.ID).Str("backorder_number", backorder.OrderNumber).
			Msg("backorder creado por recepción parcial")
	}
	resp := &dto.ReceptionResponse{Order: *ToPurchaseOrderResponse(order, now), IsPartial: partial}
	if backorder != nil {
		resp.Backorder = ToPurchaseOrderResponse(backorder, now)
	}
	return resp, nil
}

// bookStock suma lo recibido en la ubicación. Los kits ingresan como sus componentes.
func (uc *ReceptionUseCase) bookStock(ctx context.Context, s repository.Stores, o *entity.PurchaseOrder, plan *purchasing.ReceptionPlan, locationID, userID string, now time.Time) error {
	if len(plan.Received) == 0 {
		return nil
	}
	ids := make([]string, 0, len(plan.Received))
	lines := make([]domaininv.Line, 0, len(plan.Received))
	for _, r := range plan.Received {
		ids = append(ids, r.ItemID)
		lines = append(lines, domaininv.Line{ItemID: r.ItemID, Quantity: r.Quantity})
	}
	items, err := appinv.LoadItemsWithComponents(ctx, s.Items, ids...)
	if err != nil {
		return err
	}
	exploded, err := domaininv.Explode(lines, items)
	if err != nil {
		return err
	}
	deltas := make([]appinv.StockDelta, 0, len(exploded))
	for _, l := range exploded {
		deltas = append(deltas, appinv.StockDelta{ItemID: l.ItemID, LocationID: locationID, Quantity: l.Quantity})
	}
	return appinv.ApplyStockDeltas(ctx, s, deltas, appinv.MovementRef{
		Type:          entity.MovementTypeRECEPTION,
		Reference:     o.OrderNumber,
		UserID:        userID,
		TransactionID: uuid.New().String(),
		Date:          now,
	})
}

// createBackorder crea la orden por el remanente: mismo proveedor, proyecto y fechas,
// número propio y estado inicial Enviada al Proveedor (la madre ya fue aprobada).
func (uc *ReceptionUseCase) createBackorder(ctx context.Context, s repository.Stores, parent *entity.PurchaseOrder, pending []entity.OrderLine, notes, userID string, now time.Time) (*entity.PurchaseOrder, error) {
	seq, err := s.Counters.Next(ctx, repository.SeriesPurchaseOrder, now.Year())
	if err != nil {
		return nil, err
	}
	bo := &entity.PurchaseOrder{
		ID:              uuid.New().String(),
		OrderNumber:     purchasing.FormatOrderNumber(now.Year(), seq),
		SupplierID:      parent.SupplierID,
		SupplierName:    parent.SupplierName,
		ProjectID:       parent.ProjectID,
		ProjectName:     parent.ProjectName,
		Items:           append([]entity.OrderLine(nil), pending...),
		OriginalOrderID: parent.ID,
		OrderDate:       parent.OrderDate,
		Notes:           parent.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
	if parent.EstimatedDeliveryDate != nil {
		d := *parent.EstimatedDeliveryDate
		bo.EstimatedDeliveryDate = &d
	}
	bo.RecalculateTotal()
	bo.AppendHistory(entity.OrderStatusSentToSupplier, now,
		strings.TrimSpace(fmt.Sprintf("Backorder de la orden %s. %s", parent.OrderNumber, strings.TrimSpace(notes))))
	if err := s.Orders.Create(ctx, bo); err != nil {
		return nil, err
	}
	return bo, nil
}
