package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marnix_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marnix_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// Approval workflow
	ApprovalActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marnix_approval_actions_total",
			Help: "Total number of approve/reject actions by result",
		},
		[]string{"action", "result"}, // result: success, error, forbidden, invalid
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marnix_notifications_total",
			Help: "Total number of notification emails by template and result",
		},
		[]string{"template", "result"},
	)

	MailCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marnix_mail_circuit_state",
			Help: "SMTP circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Services
	ServiceHealthChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marnix_service_health_checks_total",
			Help: "Total number of service health checks by resulting status",
		},
		[]string{"service", "status"},
	)

	ServiceResponseTime = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marnix_service_response_time_seconds",
			Help: "Response time of the latest health check",
		},
		[]string{"service"},
	)

	// Configuration
	ConfigReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marnix_config_reloads_total",
			Help: "Total number of configuration reloads by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordApprovalAction counts an approve or reject attempt.
func RecordApprovalAction(action, result string) {
	ApprovalActions.WithLabelValues(action, result).Inc()
}

// RecordNotification counts a notification attempt.
func RecordNotification(template string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	Notifications.WithLabelValues(template, result).Inc()
}

// RecordServiceHealth records the outcome of a health check.
func RecordServiceHealth(service, status string, responseTime time.Duration) {
	ServiceHealthChecks.WithLabelValues(service, status).Inc()
	ServiceResponseTime.WithLabelValues(service).Set(responseTime.Seconds())
}

// RecordConfigReload counts a configuration reload.
func RecordConfigReload(err error) {
	if err != nil {
		ConfigReloads.WithLabelValues("error").Inc()
		return
	}
	ConfigReloads.WithLabelValues("success").Inc()
}
