package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	DossiersCreated   prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	AuditEvents       prometheus.Counter
	Notifications     prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		DossiersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certitrack_dossiers_created_total",
			Help: "Total number of dossiers created.",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certitrack_status_transitions_total",
			Help: "Dossier status transitions by origin and target status.",
		}, []string{"from", "to"}),
		AuditEvents: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certitrack_audit_events_total",
			Help: "Total number of audit events appended.",
		}),
		Notifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certitrack_notifications_total",
			Help: "Total number of notifications emitted.",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certitrack_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// IncrementDossiersCreated increments the dossier creation counter by 1.
func (m *Metrics) IncrementDossiersCreated() {
	if m == nil {
		return
	}
	m.DossiersCreated.Inc()
}

// ObserveStatusTransition records a status transition.
func (m *Metrics) ObserveStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// IncrementAuditEvents increments the audit event counter by 1.
func (m *Metrics) IncrementAuditEvents() {
	if m == nil {
		return
	}
	m.AuditEvents.Inc()
}

// IncrementNotifications increments the notification counter by 1.
func (m *Metrics) IncrementNotifications() {
	if m == nil {
		return
	}
	m.Notifications.Inc()
}

// ObserveRequestDuration records HTTP request latency.
func (m *Metrics) ObserveRequestDuration(method, path string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
