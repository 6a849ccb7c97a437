package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/orderflow-api/internal/application/ports"
	"github.com/jhoicas/orderflow-api/internal/domain"
	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
	"github.com/jhoicas/orderflow-api/pkg/logger"
)

// BreakerConfig umbrales del circuit breaker del despachador.
type BreakerConfig struct {
	Name                string
	MaxRequests         uint32        // permitidas en semiabierto
	Interval            time.Duration // ventana de conteo en cerrado (0 = nunca se limpia)
	Timeout             time.Duration // abierto -> semiabierto
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig valores por defecto para el SMTP.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "approval-notifier",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerNotifier protege otro notificador con un circuit breaker. Con el circuito abierto
// falla de inmediato con ErrDependencyFailure.
type BreakerNotifier struct {
	next    ports.ApprovalNotifier
	cb      *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewBreakerNotifier envuelve next. m puede ser nil.
func NewBreakerNotifier(next ports.ApprovalNotifier, cfg BreakerConfig, m *metrics.Metrics, log *logger.Logger) *BreakerNotifier {
	b := &BreakerNotifier{next: next, metrics: m, log: log}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
			m.SetCircuitBreakerState(name, to)
		},
	})
	return b
}

func (b *BreakerNotifier) SendApprovalRequest(ctx context.Context, a ports.ApprovalNotification) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SendApprovalRequest(ctx, a)
	})
	b.metrics.RecordNotification(err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: despachador de aprobaciones no disponible: %w", domain.ErrDependencyFailure, err)
	}
	return err
}

// State estado actual del circuito.
func (b *BreakerNotifier) State() gobreaker.State {
	return b.cb.State()
}
