package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/domain/repository"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool       *pgxpool.Pool
	timeout    time.Duration
	maxRetries int
	log        *logger.Logger
}

// NewTxRunner construye el runner. timeout acota cada intento; maxRetries cuenta solo los
// reintentos por conflicto de serialización o deadlock.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration, maxRetries int, log *logger.Logger) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout, maxRetries: maxRetries, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si Postgres aborta por serialización o deadlock se repite la unidad completa.
func (r *TxRunner) Run(ctx context.Context, fn func(s repository.Stores) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(20*time.Millisecond),
			backoff.WithMaxInterval(500*time.Millisecond),
		), uint64(r.maxRetries)),
		ctx,
	)
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			r.log.Warn().Err(err).Int("attempt", attempt).Msg("transacción abortada por concurrencia; se reintenta")
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(s repository.Stores) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := fn(NewStores(tx)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrDependencyFailure) {
			return fmt.Errorf("%w: tiempo de espera del almacén agotado: %w", domain.ErrDependencyFailure, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}
