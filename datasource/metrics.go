package datasource

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend calls and cache usage.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewMetrics creates the data source metrics and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serlo_gateway",
			Subsystem: "datasource",
			Name:      "requests_total",
			Help:      "Total number of backend requests by source, operation and outcome",
		}, []string{"source", "operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "serlo_gateway",
			Subsystem: "datasource",
			Name:      "request_duration_seconds",
			Help:      "Latency of backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "operation"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "serlo_gateway",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of cache lookups by cache and result",
		}, []string{"cache", "result"}),
	}
	for _, collector := range []prometheus.Collector{m.requests, m.latency, m.cache} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one backend call that started at start and finished with err.
func (m *Metrics) Observe(source, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	m.requests.WithLabelValues(source, operation, outcome).Inc()
	m.latency.WithLabelValues(source, operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) cacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(cache, result).Inc()
}
