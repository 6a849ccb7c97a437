package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/orderflow-api/internal/application/dto"
	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
	"github.com/jhoicas/orderflow-api/internal/domain/purchasing"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

// Acciones del enlace de aprobación.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// LifecycleConfig datos para armar la notificación de aprobación.
type LifecycleConfig struct {
	PublicURL     string // base de los enlaces, sin "/" final
	ApproverEmail string
}

// LifecycleUseCase dueño de la máquina de estados de la orden de compra y de su historial.
type LifecycleUseCase struct {
	tx       ports.TxRunner
	locker   ports.KeyedLocker
	stores   repository.Stores
	notifier ports.ApprovalNotifier
	tokens   ports.ApprovalTokens
	cfg      LifecycleConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	tx ports.TxRunner,
	locker ports.KeyedLocker,
	stores repository.Stores,
	notifier ports.ApprovalNotifier,
	tokens ports.ApprovalTokens,
	cfg LifecycleConfig,
	log *logger.Logger,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		tx:       tx,
		locker:   locker,
		stores:   stores,
		notifier: notifier,
		tokens:   tokens,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Create asigna número, estado inicial e historial y persiste la orden. Si queda pendiente de
// aprobación se notifica al aprobador; si la notificación falla la orden se elimina
// y se devuelve ErrDependencyFailure.
func (uc *LifecycleUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	status := entity.OrderStatusPendingApproval
	if in.Status != "" {
		status = entity.OrderStatus(in.Status)
		if !purchasing.IsValidStatus(status) {
			return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, in.Status)
		}
	}
	supplier, err := uc.stores.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, in.SupplierID)
	}
	project, err := uc.stores.Projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: proyecto %s no existe", domain.ErrInvalidInput, in.ProjectID)
	}
	lines, err := uc.buildLines(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	order := &entity.PurchaseOrder{
		ID:                    uuid.New().String(),
		SupplierID:            supplier.ID,
		SupplierName:          supplier.Name,
		ProjectID:             project.ID,
		ProjectName:           project.Name,
		Items:                 lines,
		OrderDate:             orderDate,
		EstimatedDeliveryDate: in.EstimatedDeliveryDate,
		Notes:                 in.Notes,
		CreatedBy:             userID,
		CreatedAt:             now,
	}
	order.RecalculateTotal()
	order.AppendHistory(status, now, "Orden creada.")

	err = uc.tx.Run(ctx, func(s repository.Stores) error {
		seq, err := s.Counters.Next(ctx, repository.SeriesPurchaseOrder, now.Year())
		if err != nil {
			return err
		}
		order.OrderNumber = purchasing.FormatOrderNumber(now.Year(), seq)
		return s.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if status == entity.OrderStatusPendingApproval {
		if err := uc.requestApproval(ctx, order); err != nil {
			uc.log.Error().Err(err).Str("order_id", order.ID).Str("order_number", order.OrderNumber).
				Msg("notificación de aprobación fallida; se elimina la orden")
			if delErr := uc.stores.Orders.Delete(ctx, order.ID); delErr != nil {
				uc.log.Error().Err(delErr).Str("order_id", order.ID).Msg("no se pudo eliminar la orden tras fallar la notificación")
			}
			return nil, fmt.Errorf("%w: notificación de aprobación: %w", domain.ErrDependencyFailure, err)
		}
	}
	return ToPurchaseOrderResponse(order, now), nil
}

func (uc *LifecycleUseCase) requestApproval(ctx context.Context, order *entity.PurchaseOrder) error {
	token, err := uc.tokens.Issue(order.ID)
	if err != nil {
		return err
	}
	return uc.notifier.SendApprovalRequest(ctx, ports.ApprovalNotification{
		Recipient:   uc.cfg.ApproverEmail,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      order.Total,
		ApprovalURL: strings.TrimRight(uc.cfg.PublicURL, "/") + "/api/approvals/" + token,
		Date:        order.OrderDate,
		ProjectName: order.ProjectName,
	})
}

// Transition cambia el estado a un sucesor legal y agrega una entrada al historial.
// Las recepciones no pasan por aquí: mueven stock y se registran con ReceptionUseCase.
func (uc *LifecycleUseCase) Transition(ctx context.Context, id string, to entity.OrderStatus, comment string) (*dto.PurchaseOrderResponse, error) {
	switch to {
	case entity.OrderStatusReceived, entity.OrderStatusPartiallyReceived:
		return nil, fmt.Errorf("%w: el estado %s se registra con una recepción", domain.ErrInvalidInput, to)
	case entity.OrderStatusRejected:
		return uc.Reject(ctx, id, comment)
	}
	return uc.mutate(ctx, id, func(o *entity.PurchaseOrder, now time.Time) error {
		return purchasing.Transition(o, to, now, comment)
	})
}

// Approve pasa la orden de pendiente a aprobada.
func (uc *LifecycleUseCase) Approve(ctx context.Context, id, comment string) (*dto.PurchaseOrderResponse, error) {
	return uc.mutate(ctx, id, func(o *entity.PurchaseOrder, now time.Time) error {
		return purchasing.Transition(o, entity.OrderStatusApproved, now, comment)
	})
}

// Reject rechaza una orden pendiente de aprobación. El motivo es obligatorio.
func (uc *LifecycleUseCase) Reject(ctx context.Context, id, reason string) (*dto.PurchaseOrderResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de rechazo es obligatorio", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, id, func(o *entity.PurchaseOrder, now time.Time) error {
		if err := purchasing.Transition(o, entity.OrderStatusRejected, now, reason); err != nil {
			return err
		}
		o.RejectionReason = reason
		return nil
	})
}

// HandleApprovalAction ejecuta la acción del enlace firmado. Repetir la misma acción
// sobre una orden que ya está en el estado resultante no es un error.
func (uc *LifecycleUseCase) HandleApprovalAction(ctx context.Context, token, action, reason string) (*dto.PurchaseOrderResponse, error) {
	id, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: enlace de aprobación inválido: %w", domain.ErrUnauthorized, err)
	}
	var target entity.OrderStatus
	switch action {
	case ActionApprove:
		target = entity.OrderStatusApproved
	case ActionReject:
		target = entity.OrderStatusRejected
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: el motivo de rechazo es obligatorio", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: acción %q", domain.ErrInvalidInput, action)
	}
	return uc.mutate(ctx, id, func(o *entity.PurchaseOrder, now time.Time) error {
		if o.Status == target {
			return errNoChange
		}
		if err := purchasing.Transition(o, target, now, strings.TrimSpace(reason)); err != nil {
			return err
		}
		if target == entity.OrderStatusRejected {
			o.RejectionReason = strings.TrimSpace(reason)
		}
		return nil
	})
}

// ApprovalSummary datos que ve el aprobador al abrir el enlace.
func (uc *LifecycleUseCase) ApprovalSummary(ctx context.Context, token string) (*dto.ApprovalSummaryResponse, error) {
	id, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: enlace de aprobación inválido: %w", domain.ErrUnauthorized, err)
	}
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ApprovalSummaryResponse{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Supplier:    o.SupplierName,
		Project:     o.ProjectName,
		Total:       o.Total,
		Status:      string(o.Status),
	}, nil
}

// Delete elimina la orden sin condiciones. No revierte el stock que haya ingresado.
func (uc *LifecycleUseCase) Delete(ctx context.Context, id string) error {
	release, err := uc.locker.Acquire(ctx, OrderKey(id))
	if err != nil {
		return err
	}
	defer release()
	return uc.tx.Run(ctx, func(s repository.Stores) error {
		o, err := s.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
		}
		return s.Orders.Delete(ctx, id)
	})
}

// Duplicate crea una orden nueva con las líneas de otra. Recibe número e historial propios
// y pasa por la misma aprobación que cualquier orden nueva.
func (uc *LifecycleUseCase) Duplicate(ctx context.Context, userID, id string) (*dto.PurchaseOrderResponse, error) {
	src, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	in := dto.CreatePurchaseOrderRequest{
		SupplierID:            src.SupplierID,
		ProjectID:             src.ProjectID,
		EstimatedDeliveryDate: src.EstimatedDeliveryDate,
		Notes:                 src.Notes,
	}
	for _, l := range src.Items {
		in.Items = append(in.Items, dto.OrderLineDTO{
			ItemID:   l.ItemID,
			ItemName: l.ItemName,
			Quantity: l.Quantity,
			Price:    l.Price,
			Type:     l.Type,
		})
	}
	return uc.Create(ctx, userID, in)
}

// UpdatePending edita líneas, fecha estimada y notas mientras la orden espera aprobación.
// No cambia el estado, así que no agrega historial.
func (uc *LifecycleUseCase) UpdatePending(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var lines []entity.OrderLine
	if in.Items != nil {
		var err error
		if lines, err = uc.buildLines(ctx, in.Items); err != nil {
			return nil, err
		}
	}
	return uc.mutate(ctx, id, func(o *entity.PurchaseOrder, now time.Time) error {
		if o.Status != entity.OrderStatusPendingApproval {
			return fmt.Errorf("%w: solo se editan órdenes pendientes de aprobación", domain.ErrInvalidTransition)
		}
		if lines != nil {
			o.Items = lines
			o.RecalculateTotal()
		}
		if in.EstimatedDeliveryDate != nil {
			d := *in.EstimatedDeliveryDate
			o.EstimatedDeliveryDate = &d
		}
		if in.Notes != nil {
			o.Notes = *in.Notes
		}
		o.UpdatedAt = now
		return nil
	})
}

// GetOrder obtiene la entidad (vistas de impresión).
func (uc *LifecycleUseCase) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	o, err := uc.stores.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return o, nil
}

// Get obtiene el modelo de lectura de una orden.
func (uc *LifecycleUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(o, uc.now()), nil
}

// List consulta órdenes con filtro y paginación.
func (uc *LifecycleUseCase) List(ctx context.Context, filter repository.OrderFilter) (*dto.PurchaseOrderListResponse, error) {
	if filter.Status != "" && !purchasing.IsValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, filter.Status)
	}
	list, err := uc.stores.Orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToPurchaseOrderResponse(o, now))
	}
	return &dto.PurchaseOrderListResponse{Items: out, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset}}, nil
}

// Stream recorre el modelo de lectura sin cargar todas las órdenes en memoria.
func (uc *LifecycleUseCase) Stream(ctx context.Context, filter repository.OrderFilter, fn func(dto.PurchaseOrderResponse) error) error {
	now := uc.now()
	return uc.stores.Orders.Stream(ctx, filter, func(o *entity.PurchaseOrder) error {
		return fn(*ToPurchaseOrderResponse(o, now))
	})
}

// errNoChange corta la mutación sin escribir (acción repetida).
var errNoChange = errors.New("sin cambios")

// mutate bloquea la orden, la lee FOR UPDATE, aplica fn y persiste en una transacción.
func (uc *LifecycleUseCase) mutate(ctx context.Context, id string, fn func(o *entity.PurchaseOrder, now time.Time) error) (*dto.PurchaseOrderResponse, error) {
	release, err := uc.locker.Acquire(ctx, OrderKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	var order *entity.PurchaseOrder
	now := uc.now()
	err = uc.tx.Run(ctx, func(s repository.Stores) error {
		o, err := s.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
		}
		order = o
		if err := fn(o, now); err != nil {
			return err
		}
		return s.Orders.Update(ctx, o)
	})
	if errors.Is(err, errNoChange) {
		return ToPurchaseOrderResponse(order, now), nil
	}
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(order, now), nil
}

// buildLines valida las líneas y completa el nombre desde el catálogo cuando falta.
func (uc *LifecycleUseCase) buildLines(ctx context.Context, in []dto.OrderLineDTO) ([]entity.OrderLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la orden requiere al menos una línea", domain.ErrInvalidInput)
	}
	lines := make([]entity.OrderLine, 0, len(in))
	for i, l := range in {
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d: la cantidad debe ser mayor a cero", domain.ErrInvalidInput, i+1)
		}
		if l.Price.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d: precio negativo", domain.ErrInvalidInput, i+1)
		}
		if l.Type != entity.LineTypeMaterial && l.Type != entity.LineTypeService {
			return nil, fmt.Errorf("%w: línea %d: tipo %q", domain.ErrInvalidInput, i+1, l.Type)
		}
		name := strings.TrimSpace(l.ItemName)
		if l.ItemID != "" {
			item, err := uc.stores.Items.GetByID(ctx, l.ItemID)
			if err != nil {
				return nil, err
			}
			if item == nil {
				return nil, fmt.Errorf("%w: línea %d: artículo %s no existe", domain.ErrInvalidInput, i+1, l.ItemID)
			}
			if name == "" {
				name = item.Name
			}
		}
		if name == "" {
			return nil, fmt.Errorf("%w: línea %d: nombre requerido", domain.ErrInvalidInput, i+1)
		}
		lines = append(lines, entity.OrderLine{
			ItemID:   l.ItemID,
			ItemName: name,
			Quantity: l.Quantity,
			Price:    l.Price,
			Type:     l.Type,
		})
	}
	return lines, nil
}
