package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/infrastructure/metrics"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/items/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/items/:id", "204")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestMiddleware_FiberErrorStatus(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusConflict, "x") })

	_, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "409")))
}

func TestRecorders(t *testing.T) {
	m := metrics.New()
	m.RecordOrderCreated()
	m.RecordTransition("Aprobada")
	m.RecordReception(true)
	m.RecordStockMovement("TRANSFER", 2)
	m.RecordNotification(errors.New("smtp"))
	m.SetCircuitBreakerState("smtp", gobreaker.StateOpen)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.OrdersCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Receptions.WithLabelValues("partial")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StockMovements.WithLabelValues("TRANSFER")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsSent.WithLabelValues("error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("smtp")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "orderflow_purchase_orders_created_total")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordOrderCreated()
		m.RecordReception(false)
		m.RecordNotification(nil)
		m.SetCircuitBreakerState("x", gobreaker.StateClosed)
	})
}
