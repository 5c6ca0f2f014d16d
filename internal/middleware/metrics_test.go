package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"todo-hub-api/internal/metrics"
)

func newMetricsRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/api/project", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestMetricsMiddleware_RecordsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())
	router := newMetricsRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/api/project", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/project", "2xx"))
	assert.Equal(t, 1.0, count)
}

func TestMetricsMiddleware_SkipsHealthEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())
	router := newMetricsRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "2xx"))
	assert.Equal(t, 0.0, count)
}
