package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Activity events successfully appended
	ActivityRecordedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_events_recorded_total",
			Help: "Total number of activity log entries recorded",
		},
		[]string{"action"},
	)

	// Bulk reorder tuples applied
	ReorderAppliedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "board_reorder_tuples_applied_total",
			Help: "Total number of bulk reorder point updates that matched a task",
		},
	)
)

// IncrementActivityRecorded counts one appended activity entry
func IncrementActivityRecorded(action string) {
	ActivityRecordedCount.WithLabelValues(action).Inc()
}

// AddReorderApplied counts applied reorder tuples
func AddReorderApplied(n int64) {
	ReorderAppliedCount.Add(float64(n))
}

// Middleware observes request durations per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
