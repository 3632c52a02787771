package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_builder"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)
	resumeWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "resume_store_writes_total", Help: "Resume store writes by operation and result."},
		[]string{"op", "result"},
	)
	rateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Requests rejected by the rate limiter."},
		[]string{"group"},
	)
)

// RegisterCollectors attaches every collector to reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(httpRequestsTotal, httpRequestDuration, resumeWritesTotal, rateLimitRejectedTotal)
}

// NewRegistry returns a registry with the app collectors plus Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	RegisterCollectors(reg)
	return reg
}

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveResumeWrite counts a store write outcome.
func ObserveResumeWrite(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	resumeWritesTotal.WithLabelValues(op, result).Inc()
}

// IncRateLimitRejected counts a rejected request for the limiter group.
func IncRateLimitRejected(group string) {
	rateLimitRejectedTotal.WithLabelValues(group).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler(g prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
