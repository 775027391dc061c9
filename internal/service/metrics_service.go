package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/hallpass-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic
// and the attendance/hall-pass domain counters.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	checkinsTotal   *prometheus.CounterVec
	tripsTotal      *prometheus.CounterVec
	protectionTotal prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	checkinsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkins_total",
		Help: "Attendance check-ins by verdict",
	}, []string{"result"})

	tripsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hallpass_trips_total",
		Help: "Hall-pass trips by lifecycle event",
	}, []string{"status"})

	protectionTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streak_protection_used_total",
		Help: "Times a double-digit streak survived a late arrival",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, checkinsTotal, tripsTotal, protectionTotal, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		checkinsTotal:   checkinsTotal,
		tripsTotal:      tripsTotal,
		protectionTotal: protectionTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveCheckIn counts a recorded check-in by verdict.
func (m *MetricsService) ObserveCheckIn(onTime bool) {
	if m == nil {
		return
	}
	result := "late"
	if onTime {
		result = "on_time"
	}
	m.checkinsTotal.WithLabelValues(result).Inc()
}

// ObserveTrip counts a hall-pass lifecycle event.
func (m *MetricsService) ObserveTrip(status models.TripStatus) {
	if m == nil {
		return
	}
	m.tripsTotal.WithLabelValues(string(status)).Inc()
}

// ObserveStreakProtection counts a spent streak protection.
func (m *MetricsService) ObserveStreakProtection() {
	if m == nil {
		return
	}
	m.protectionTotal.Inc()
}

// RecordCacheOperation counts stats-cache lookups.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
