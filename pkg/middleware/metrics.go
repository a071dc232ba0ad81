package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emporium/backoffice/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return MetricsMiddlewareWithConfig(m, DefaultMetricsConfig())
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// MetricsConfig holds configuration for metrics middleware
type MetricsConfig struct {
	// ExcludePaths lists paths to exclude from metrics
	ExcludePaths []string
}

// DefaultMetricsConfig returns a default metrics configuration
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		ExcludePaths: []string{"/metrics", "/health", "/ready"},
	}
}

// MetricsMiddlewareWithConfig creates metrics middleware with custom configuration
func MetricsMiddlewareWithConfig(m *metrics.Metrics, config *MetricsConfig) gin.HandlerFunc {
	excludeMap := make(map[string]bool)
	for _, path := range config.ExcludePaths {
		excludeMap[path] = true
	}

	return func(c *gin.Context) {
		// Skip excluded paths
		if excludeMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Track in-flight requests
		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath() // Use route pattern, not actual path

		if path == "" {
			path = c.Request.URL.Path
		}

		m.RecordHTTPRequest(method, path, status, duration)
	}
}

// BusinessMetrics provides helpers for recording business-specific metrics
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

// RecordBillCreated records a bill creation event
func (b *BusinessMetrics) RecordBillCreated(status string) {
	b.metrics.RecordBillCreated(status)
}

// RecordStockConsumed records units removed from stock
func (b *BusinessMetrics) RecordStockConsumed(source string, units int) {
	b.metrics.RecordStockAdjustment("consume", source, units)
}

// RecordStockRestored records units returned to stock
func (b *BusinessMetrics) RecordStockRestored(source string, units int) {
	b.metrics.RecordStockAdjustment("restore", source, units)
}

// RecordStockRejection records a decrement rejected for insufficient stock
func (b *BusinessMetrics) RecordStockRejection(source string) {
	b.metrics.RecordStockRejection(source)
}

// RecordCommissionAccrued records commission accrued to a seller
func (b *BusinessMetrics) RecordCommissionAccrued(source string, amount float64) {
	b.metrics.RecordCommissionAccrued(source, amount)
}

// RecordSalesRecorded records sale ledger writes
func (b *BusinessMetrics) RecordSalesRecorded(source string, count int) {
	b.metrics.RecordSaleRecorded(source, count)
}

// RecordParcelDispatched records a parcel creation event
func (b *BusinessMetrics) RecordParcelDispatched(status string) {
	b.metrics.RecordParcelDispatched(status)
}

// RecordReturnProcessed records a processed return
func (b *BusinessMetrics) RecordReturnProcessed() {
	b.metrics.RecordReturnProcessed()
}

// RecordSideEffectFailure records a swallowed secondary accounting failure
func (b *BusinessMetrics) RecordSideEffectFailure(stage string) {
	b.metrics.RecordSideEffectFailure(stage)
}

// RecordCircuitBreakerState records circuit breaker state
func (b *BusinessMetrics) RecordCircuitBreakerState(name string, state int) {
	b.metrics.SetCircuitBreakerState(name, state)
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (b *BusinessMetrics) RecordCircuitBreakerTrip(name string) {
	b.metrics.RecordCircuitBreakerTrip(name)
}
