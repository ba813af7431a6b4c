package mocks

import (
	"net/http"
	"time"
	"todoapp/infras/metrics"
)

type metricsImpl struct {
}

// ObserveHTTPRequest implements metrics.Metrics.
func (m *metricsImpl) ObserveHTTPRequest(_, _ string, _ int, _ time.Duration) {

}

// TrackInFlight implements metrics.Metrics.
func (m *metricsImpl) TrackInFlight() func() {
	return func() {}
}

// CacheHit implements metrics.Metrics.
func (m *metricsImpl) CacheHit(_ string) {

}

// CacheMiss implements metrics.Metrics.
func (m *metricsImpl) CacheMiss(_ string) {

}

// CacheError implements metrics.Metrics.
func (m *metricsImpl) CacheError(_ string) {

}

// ObserveQuery implements metrics.Metrics.
func (m *metricsImpl) ObserveQuery(_ string, _ time.Duration) {

}

// ObserveOperation implements metrics.Metrics.
func (m *metricsImpl) ObserveOperation(_, _ string, _ time.Duration) {

}

// Handler implements metrics.Metrics.
func (m *metricsImpl) Handler() http.Handler {
	return http.NotFoundHandler()
}

func NewMetrics() metrics.Metrics {
	return &metricsImpl{}
}
