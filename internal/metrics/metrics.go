// Package metrics provides centralized Prometheus metrics registry for the pick advisor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pick_advisor"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "picks_total",
		Help:      "Total number of picks decided",
	}, []string{"market", "pick"})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Total number of prediction provider requests",
	}, []string{"endpoint", "status"})
	ProviderCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_cache_lookups_total",
		Help:      "Prediction cache lookups",
	}, []string{"result"})
	StaleResponsesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_responses_total",
		Help:      "Prediction responses discarded because a newer request was issued",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of provider circuit breaker trips",
	})
)

// Gauge metrics
var (
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of open WebSocket sessions",
	})
	ProviderUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "provider_up",
		Help:      "Whether the last provider health probe succeeded",
	})
)

// Histogram metrics
var (
	PickExpectedValue = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pick_expected_value",
		Help:      "Expected value of odds-based picks",
		Buckets:   []float64{-0.5, -0.2, -0.1, -0.05, 0, 0.05, 0.1, 0.2, 0.5},
	}, []string{"market"})
	PickDecisionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pick_decision_duration_seconds",
		Help:      "Duration of pick decisions in seconds",
		Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
	})
	ProviderLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_latency_seconds",
		Help:      "Prediction provider latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		// Register counter metrics
		registry.MustRegister(PicksTotal)
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ProviderCacheTotal)
		registry.MustRegister(StaleResponsesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(ActiveSessions)
		registry.MustRegister(ProviderUp)

		// Register histogram metrics
		registry.MustRegister(PickExpectedValue)
		registry.MustRegister(PickDecisionDuration)
		registry.MustRegister(ProviderLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPick records a decided pick.
func RecordPick(market, pick string, ev *float64, durationSeconds float64) {
	PicksTotal.WithLabelValues(market, pick).Inc()
	PickDecisionDuration.Observe(durationSeconds)
	if ev != nil {
		PickExpectedValue.WithLabelValues(market).Observe(*ev)
	}
}

// RecordProviderRequest records a provider call outcome and latency.
func RecordProviderRequest(endpoint, status string, durationSeconds float64) {
	ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
	ProviderLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordCacheLookup records a prediction cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ProviderCacheTotal.WithLabelValues(result).Inc()
}

// RecordStaleResponse records a discarded out-of-order response.
func RecordStaleResponse() {
	StaleResponsesTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// SessionOpened increments the active session gauge.
func SessionOpened() {
	ActiveSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func SessionClosed() {
	ActiveSessions.Dec()
}

// SetProviderUp records the provider health probe outcome.
func SetProviderUp(up bool) {
	if up {
		ProviderUp.Set(1)
		return
	}
	ProviderUp.Set(0)
}
