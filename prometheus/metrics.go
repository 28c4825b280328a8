package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shop-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpStatusClass     *prometheus.CounterVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   *prometheus.CounterVec

	// Guard rejections by kind (unauthorized, forbidden)
	AccessDeniedCounter *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Entity operations by entity and operation
	EntityOperationsCounter *prometheus.CounterVec

	// Orders and validation
	OrdersCreatedCounter     prometheus.Counter
	ValidationFailureCounter *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics registers the service metrics under config.Metrics.Prefix.
// Later calls are no-ops. Before it runs every Record helper does nothing.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		register(promauto.With(prometheus.DefaultRegisterer), config.Metrics.Prefix)
	})
}

func register(factory promauto.Factory, prefix string) {
	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpStatusClass = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_status_class_total",
			Help: "Total number of responses by status class (2xx, 4xx, 5xx)",
		},
		[]string{"class"},
	)

	AuthAttemptsCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	AuthSuccessCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful logins",
		},
	)

	AuthErrorsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors by type",
		},
		[]string{"type"},
	)

	AccessDeniedCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_access_denied_total",
			Help: "Total number of requests rejected by access guards",
		},
		[]string{"kind"},
	)

	DbOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	EntityOperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_entity_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation"},
	)

	OrdersCreatedCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_orders_created_total",
			Help: "Total number of orders created",
		},
	)

	ValidationFailureCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_validation_failures_total",
			Help: "Total number of requests rejected by field validation",
		},
		[]string{"entity"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path, status string, seconds float64) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
	if len(status) == 3 {
		HttpStatusClass.WithLabelValues(status[:1] + "xx").Inc()
	}
}

// RecordLoginAttempt counts a login attempt
func RecordLoginAttempt() {
	if AuthAttemptsCounter != nil {
		AuthAttemptsCounter.Inc()
	}
}

// RecordLoginSuccess counts a successful login
func RecordLoginSuccess() {
	if AuthSuccessCounter != nil {
		AuthSuccessCounter.Inc()
	}
}

// RecordAuthError counts an authentication failure by type
func RecordAuthError(errorType string) {
	if AuthErrorsCounter != nil {
		AuthErrorsCounter.WithLabelValues(errorType).Inc()
	}
}

// RecordAccessDenied counts a guard rejection
func RecordAccessDenied(kind string) {
	if AccessDeniedCounter != nil {
		AccessDeniedCounter.WithLabelValues(kind).Inc()
	}
}

// RecordEntityOperation increments the counter for entity operations
func RecordEntityOperation(entity, operation string) {
	if EntityOperationsCounter != nil {
		EntityOperationsCounter.WithLabelValues(entity, operation).Inc()
	}
}

// RecordOrderCreated counts a committed order
func RecordOrderCreated() {
	if OrdersCreatedCounter != nil {
		OrdersCreatedCounter.Inc()
	}
}

// RecordValidationFailure counts a rejected request body
func RecordValidationFailure(entity string) {
	if ValidationFailureCounter != nil {
		ValidationFailureCounter.WithLabelValues(entity).Inc()
	}
}
