package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joaovenera/wms-sub000/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

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

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
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

// RecordValidation records a composition validation run
func (b *BusinessMetrics) RecordValidation(mode string, valid bool, duration time.Duration) {
	b.metrics.RecordValidation(mode, valid, duration)
}

// RecordCacheHit records a validation cache hit
func (b *BusinessMetrics) RecordCacheHit(cacheType string) {
	b.metrics.RecordCacheLookup(cacheType, true)
}

// RecordCacheMiss records a validation cache miss
func (b *BusinessMetrics) RecordCacheMiss(cacheType string) {
	b.metrics.RecordCacheLookup(cacheType, false)
}

// RecordRateLimitRejection records a rejected request
func (b *BusinessMetrics) RecordRateLimitRejection(endpoint string) {
	b.metrics.RecordRateLimitRejection(endpoint)
}

// RecordUCPCreated records a UCP creation event
func (b *BusinessMetrics) RecordUCPCreated() {
	b.metrics.RecordUCPLifecycle("created")
}

// RecordUCPMoved records a UCP move event
func (b *BusinessMetrics) RecordUCPMoved() {
	b.metrics.RecordUCPLifecycle("moved")
}

// RecordUCPDismantled records a UCP dismantle event
func (b *BusinessMetrics) RecordUCPDismantled() {
	b.metrics.RecordUCPLifecycle("dismantled")
}

// RecordItemMovement records item additions and removals
func (b *BusinessMetrics) RecordItemMovement(action string, quantity int) {
	b.metrics.RecordItemMovement(action, quantity)
}

// RecordCompositionAssembled records a composition assembly
func (b *BusinessMetrics) RecordCompositionAssembled() {
	b.metrics.RecordComposition("assembled")
}

// RecordCompositionDisassembled records a composition disassembly
func (b *BusinessMetrics) RecordCompositionDisassembled() {
	b.metrics.RecordComposition("disassembled")
}

// RecordCircuitBreakerState records circuit breaker state
func (b *BusinessMetrics) RecordCircuitBreakerState(name string, state int) {
	b.metrics.SetCircuitBreakerState(name, state)
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (b *BusinessMetrics) RecordCircuitBreakerTrip(name string) {
	b.metrics.RecordCircuitBreakerTrip(name)
}
