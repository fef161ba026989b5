package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	MealStatusCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_status_changes_total",
			Help: "Meal status transitions by target status",
		},
		[]string{"status"},
	)

	PointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_delta_total",
			Help: "Sum of absolute point changes applied to profiles, by direction",
		},
		[]string{"direction"},
	)

	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_enqueued_total",
			Help: "Notifications enqueued by type",
		},
		[]string{"type"},
	)

	RealtimeSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_subscribers",
			Help: "Number of active realtime subscriptions",
		},
	)
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(MealStatusCounter)
		prometheus.MustRegister(PointsAwarded)
		prometheus.MustRegister(NotificationCounter)
		prometheus.MustRegister(RealtimeSubscribers)
	})
}

// RecordPointsDelta adds a profile point change to the direction counters.
func RecordPointsDelta(delta int) {
	switch {
	case delta > 0:
		PointsAwarded.WithLabelValues("gain").Add(float64(delta))
	case delta < 0:
		PointsAwarded.WithLabelValues("loss").Add(float64(-delta))
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
