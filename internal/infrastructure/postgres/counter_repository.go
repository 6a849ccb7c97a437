package postgres

import (
	"context"

	"github.com/jhoicas/orderflow-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo secuencias de numeración por serie y año.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Next incrementa y devuelve el contador. La fila queda bloqueada hasta el fin de la tx,
// así dos transacciones nunca obtienen el mismo valor.
func (r *CounterRepo) Next(ctx context.Context, series string, year int) (int, error) {
	query := `
		INSERT INTO document_counters (series, year, value) VALUES ($1, $2, 1)
		ON CONFLICT (series, year) DO UPDATE SET value = document_counters.value + 1
		RETURNING value`
	var n int
	if err := r.q.QueryRow(ctx, query, series, year).Scan(&n); err != nil {
		return 0, storeErr("next counter", err)
	}
	return n, nil
}
