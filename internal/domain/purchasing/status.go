package purchasing

import (
	"fmt"
	"time"

	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/entity"
)

// successors máquina de estados de la orden de compra. Las transiciones son en un solo sentido.
var successors = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusPendingApproval:   {entity.OrderStatusApproved, entity.OrderStatusRejected},
	entity.OrderStatusApproved:          {entity.OrderStatusSentToSupplier},
	entity.OrderStatusSentToSupplier:    {entity.OrderStatusReceived, entity.OrderStatusPartiallyReceived},
	entity.OrderStatusReceived:          {entity.OrderStatusStored},
	entity.OrderStatusPartiallyReceived: {entity.OrderStatusStored},
	entity.OrderStatusRejected:          nil,
	entity.OrderStatusStored:            nil,
}

// IsValidStatus indica si s es un estado conocido.
func IsValidStatus(s entity.OrderStatus) bool {
	_, ok := successors[s]
	return ok
}

// Successors devuelve los estados alcanzables desde s en un paso.
func Successors(s entity.OrderStatus) []entity.OrderStatus {
	return append([]entity.OrderStatus(nil), successors[s]...)
}

// CanTransition indica si from -> to es una transición legal.
func CanTransition(from, to entity.OrderStatus) bool {
	for _, s := range successors[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado no tiene sucesores.
func IsTerminal(s entity.OrderStatus) bool {
	next, ok := successors[s]
	return ok && len(next) == 0
}

// Transition valida y aplica el cambio de estado agregando una entrada al historial.
// Si la transición es ilegal la orden no se modifica.
func Transition(order *entity.PurchaseOrder, to entity.OrderStatus, at time.Time, comment string) error {
	if !IsValidStatus(to) {
		return fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, to)
	}
	if !CanTransition(order.Status, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, to)
	}
	order.AppendHistory(to, at, comment)
	return nil
}
