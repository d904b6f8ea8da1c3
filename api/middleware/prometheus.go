package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const ServiceName = "filmorate"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status", "service"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	reviewReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_reactions_total",
			Help: "Total number of review like/dislike operations",
		},
		[]string{"operation", "status", "service"},
	)

	reviewReactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_reaction_duration_seconds",
			Help:    "Duration of review reaction operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "service"},
	)
)

func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
			serviceName,
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			serviceName,
		).Observe(duration)
	}
}

// RecordReviewReaction учитывает операцию с реакцией на отзыв.
// status - ok или класс ошибки (validation, not_found, internal)
func RecordReviewReaction(operation, status, serviceName string, duration time.Duration) {
	reviewReactionsTotal.WithLabelValues(operation, status, serviceName).Inc()
	reviewReactionDuration.WithLabelValues(operation, serviceName).Observe(duration.Seconds())
}
