package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

var _ ports.KeyedLocker = (*RedisLocker)(nil)

const keyPrefix = "orderflow:lock:"

// RedisLocker locks distribuidos con bsm/redislock; sirve cuando hay varias instancias de la API.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  time.Duration
	log    *logger.Logger
}

// NewRedisLocker construye el locker. ttl acota cuánto vive un lock si el proceso muere.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, retry: 50 * time.Millisecond, log: log}
}

// Acquire toma las claves en orden reintentando hasta que ctx termine o se agoten los reintentos.
// Si no se obtiene alguna devuelve ErrConflict y libera las anteriores.
func (r *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	held := make([]*redislock.Lock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// Contexto propio: el del request puede estar cancelado al liberar.
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := held[i].Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				r.log.Warn().Err(err).Str("key", held[i].Key()).Msg("no se pudo liberar el lock")
			}
			cancel()
		}
	}
	attempts := int(r.ttl / r.retry)
	if attempts < 1 {
		attempts = 1
	}
	opts := &redislock.Options{RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(r.retry), attempts)}
	for _, k := range keys {
		l, err := r.client.Obtain(ctx, keyPrefix+k, r.ttl, opts)
		if err != nil {
			release()
			if errors.Is(err, redislock.ErrNotObtained) {
				return nil, fmt.Errorf("%w: recurso ocupado (%s)", domain.ErrConflict, k)
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: esperando lock %s: %w", domain.ErrDependencyFailure, k, ctx.Err())
			}
			return nil, fmt.Errorf("%w: redis lock %s: %w", domain.ErrDependencyFailure, k, err)
		}
		held = append(held, l)
	}
	done := false
	return func() {
		if !done {
			done = true
			release()
		}
	}, nil
}
