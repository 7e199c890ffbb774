package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the server's Prometheus collectors.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	generated *prometheus.CounterVec
	grades    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_parser_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "activity_parser_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		generated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_parser_activities_generated_total",
			Help: "Activities generated, by source and result",
		}, []string{"source", "result"}),
		grades: f.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_parser_answers_graded_total",
			Help: "Answers graded, by strategy",
		}, []string{"strategy"}),
	}
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) recordGenerated(source string, ok, failed int) {
	m.generated.WithLabelValues(source, "success").Add(float64(ok))
	m.generated.WithLabelValues(source, "failure").Add(float64(failed))
}

func (m *Metrics) recordGrade(strategy string) {
	m.grades.WithLabelValues(strategy).Inc()
}
