package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

// Metrics métricas HTTP y de negocio del servicio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	OrdersCreated         prometheus.Counter
	OrderTransitions      *prometheus.CounterVec
	Receptions            *prometheus.CounterVec
	StockMovements        *prometheus.CounterVec
	NotificationsSent     *prometheus.CounterVec
	CircuitBreakerState   *prometheus.GaugeVec
	CircuitBreakerChanges *prometheus.CounterVec
}

// New crea las métricas sobre un registro propio (namespace orderflow).
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	const ns = "orderflow"
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "http_requests_total", Help: "Peticiones HTTP atendidas",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "http_request_duration_seconds", Help: "Latencia de las peticiones HTTP",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		HTTPRequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "http_requests_in_flight", Help: "Peticiones HTTP en curso",
		}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "purchase_orders_created_total", Help: "Órdenes de compra creadas",
		}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "purchase_order_transitions_total", Help: "Cambios de estado de órdenes",
		}, []string{"status"}),
		Receptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "receptions_total", Help: "Recepciones procesadas",
		}, []string{"kind"}),
		StockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "stock_movements_total", Help: "Movimientos de inventario registrados",
		}, []string{"type"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "approval_notifications_total", Help: "Solicitudes de aprobación despachadas",
		}, []string{"result"}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "circuit_breaker_state", Help: "0 cerrado, 1 semiabierto, 2 abierto",
		}, []string{"name"}),
		CircuitBreakerChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "circuit_breaker_state_changes_total", Help: "Cambios de estado del breaker",
		}, []string{"name", "to"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.OrdersCreated,
		m.OrderTransitions,
		m.Receptions,
		m.StockMovements,
		m.NotificationsSent,
		m.CircuitBreakerState,
		m.CircuitBreakerChanges,
	)
	return m
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry registro subyacente (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordHTTPRequest registra una petición atendida.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOrderCreated cuenta una orden creada. Los métodos Record* aceptan receptor nil.
func (m *Metrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

// RecordTransition cuenta un cambio de estado de orden.
func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(status).Inc()
}

// RecordReception cuenta una recepción; partial indica si generó backorder.
func (m *Metrics) RecordReception(partial bool) {
	if m == nil {
		return
	}
	kind := "full"
	if partial {
		kind = "partial"
	}
	m.Receptions.WithLabelValues(kind).Inc()
}

// RecordStockMovement cuenta movimientos de inventario por tipo.
func (m *Metrics) RecordStockMovement(movementType string, n int) {
	if m == nil {
		return
	}
	m.StockMovements.WithLabelValues(movementType).Add(float64(n))
}

// RecordNotification registra el resultado de un despacho de aprobación.
func (m *Metrics) RecordNotification(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.NotificationsSent.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState publica el estado actual de un breaker.
func (m *Metrics) SetCircuitBreakerState(name string, state gobreaker.State) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	m.CircuitBreakerChanges.WithLabelValues(name, state.String()).Inc()
}

// Middleware mide cada petición de fiber. La ruta se toma del patrón registrado
// para no explotar la cardinalidad con IDs.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < 400 {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Method(), path, status, time.Since(start))
		return err
	}
}
