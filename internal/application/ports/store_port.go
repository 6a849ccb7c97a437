package ports

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(s repository.Stores) error) error
}

// KeyedLocker exclusión mutua por clave (order:<id>, stock:<item>:<location>).
// Acquire toma todas las claves en orden; release libera las que se tomaron.
type KeyedLocker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}
