// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_submissions_received_total",
			Help: "Total number of submissions received",
		},
	)

	SubmissionsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_submissions_accepted_total",
			Help: "Total number of submissions persisted and notified",
		},
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_failed_total",
			Help: "Total number of failed submissions by pipeline stage",
		},
		[]string{"stage", "error_code"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "intake_submission_duration_seconds",
			Help: "Duration of submission pipeline processing in seconds",
		},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notification_failures_total",
			Help: "Notification deliveries that failed after a successful insert",
		},
		[]string{"provider"},
	)

	AdminListRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_admin_list_requests_total",
			Help: "Admin listing requests by outcome",
		},
		[]string{"outcome"},
	)
)
