// internal/intake/pipeline.go

// Package intake implements the submission-processing pipeline: validate,
// gate the resume file, persist, notify HR, and map every failure mode to a
// response outcome.
package intake

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"careers-intake/internal/common/config"
	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
	"careers-intake/internal/common/metrics"
	"careers-intake/internal/common/observability"
	"careers-intake/internal/filegate"
	"careers-intake/internal/models"
	"careers-intake/internal/notifier"
	"careers-intake/internal/repository"
)

// Pipeline orchestrates one submission per request. Stages run strictly in
// order; every failure is terminal for the current request and nothing is
// retried automatically.
type Pipeline struct {
	gate     *filegate.Gate
	repo     repository.ApplicantRepository
	notifier notifier.Notifier
	guard    *SubmissionGuard // nil when disabled
	obs      *observability.Observability

	notification config.NotificationConfig

	storageTimeout  time.Duration
	deliveryTimeout time.Duration

	logger logger.Logger
}

func NewPipeline(
	gate *filegate.Gate,
	repo repository.ApplicantRepository,
	n notifier.Notifier,
	guard *SubmissionGuard,
	notification config.NotificationConfig,
	log logger.Logger,
) *Pipeline {
	if notification.Timeout == 0 {
		notification.Timeout = config.DefaultDeliveryTimeout
	}
	return &Pipeline{
		gate:            gate,
		repo:            repo,
		notifier:        n,
		guard:           guard,
		notification:    notification,
		storageTimeout:  config.DefaultStorageTimeout,
		deliveryTimeout: notification.Timeout,
		logger:          log.WithFields(map[string]interface{}{"component": "submission-pipeline"}),
	}
}

// SetObservability attaches the OpenTelemetry recorder. Optional; the
// pipeline works without it.
func (p *Pipeline) SetObservability(obs *observability.Observability) {
	p.obs = obs
}

// Process runs Validate, FileGate, Persist and Notify for one decoded
// submission. It returns the new record identifier on full success. The
// partial-failure policy: once Insert succeeds the record is kept even when
// notification delivery fails; the caller still gets a server error so it
// knows delivery is unconfirmed.
func (p *Pipeline) Process(ctx context.Context, sub *models.Submission) (int64, *errors.StandardError) {
	start := time.Now()
	status := "accepted"
	defer func() {
		metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
		if p.obs != nil {
			p.obs.RecordSubmission(ctx, status)
			p.obs.RecordSubmissionDuration(ctx, time.Since(start), status)
		}
	}()

	// Stage: validate required fields. No side effect has occurred yet.
	if missing := missingFields(sub); len(missing) > 0 {
		stdErr := errors.NewMissingFieldsError(missing)
		status = "validate"
		p.failStage(status, stdErr)
		return 0, stdErr
	}

	// Stage: file gate. Still no side effect.
	if verdict := p.gate.Evaluate(sub.ResumeFilename, sub.ResumeSize); !verdict.Accepted {
		stdErr := errors.NewFileRejectedError(errors.ErrorCode(verdict.Code), verdict.Reason)
		status = "filegate"
		p.failStage(status, stdErr)
		return 0, stdErr
	}

	// Stage: duplicate-submission guard, last check before side effects.
	if p.guard != nil {
		if err := p.guard.Reserve(ctx, sub.Email); err != nil {
			stdErr := errors.Normalize(err)
			status = "guard"
			p.failStage(status, stdErr)
			return 0, stdErr
		}
	}

	// Stage: persist. The insert runs on a detached timeout context so a
	// client disconnect cannot abandon a write that has already started.
	record := models.NewApplicant{
		GivenName:      sub.GivenName,
		FamilyName:     sub.FamilyName,
		Email:          sub.Email,
		Phone:          sub.Phone,
		Country:        sub.Country,
		DesiredRole:    sub.DesiredRole,
		WantsAlerts:    sub.WantsAlerts,
		ResumeFilename: sub.ResumeFilename,
	}

	insertCtx, cancelInsert := context.WithTimeout(context.Background(), p.storageTimeout)
	defer cancelInsert()

	id, err := p.repo.Insert(insertCtx, record)
	if err != nil {
		stdErr := errors.Normalize(err)
		status = "persist"
		p.failStage(status, stdErr)
		if p.guard != nil {
			// Nothing was stored; let the applicant retry immediately.
			p.guard.Release(context.Background(), sub.Email)
		}
		return 0, stdErr
	}

	// Stage: notify. Built strictly from the persisted record, so every
	// notification references a row that exists, by the same identifier.
	msg := p.buildMessage(id, sub)

	notifyCtx, cancelNotify := context.WithTimeout(context.Background(), p.deliveryTimeout)
	defer cancelNotify()

	if err := p.notifier.Send(notifyCtx, msg); err != nil {
		stdErr := errors.Normalize(err)
		status = "notify"
		p.failStage(status, stdErr)
		metrics.NotificationFailures.WithLabelValues(p.notification.Provider).Inc()
		// The record stays persisted: the applicant is not penalized for an
		// email outage. The caller still sees a server error.
		p.logger.Error("record persisted but notification failed", map[string]interface{}{
			"applicantId": id,
			"errorCode":   string(stdErr.Code),
		})
		return 0, stdErr
	}

	metrics.SubmissionsAccepted.Inc()
	p.logger.Info("submission processed", map[string]interface{}{
		"applicantId": id,
		"country":     sub.Country,
		"durationMs":  time.Since(start).Milliseconds(),
	})

	return id, nil
}

func (p *Pipeline) failStage(stage string, stdErr *errors.StandardError) {
	metrics.SubmissionsFailed.WithLabelValues(stage, string(stdErr.Code)).Inc()
	p.logger.Warn("submission rejected", map[string]interface{}{
		"stage":         stage,
		"errorCode":     string(stdErr.Code),
		"errorCategory": errors.GetErrorCategory(stdErr.Code),
		"details":       stdErr.Details,
	})
}

func missingFields(sub *models.Submission) []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{fieldGivenName, sub.GivenName},
		{fieldFamilyName, sub.FamilyName},
		{fieldEmail, sub.Email},
		{fieldPhone, sub.Phone},
		{fieldCountry, sub.Country},
	}
	for _, f := range required {
		if isBlank(f.value) {
			missing = append(missing, f.name)
		}
	}
	if sub.ResumeFilename == "" || len(sub.ResumeContent) == 0 {
		missing = append(missing, fieldResume)
	}
	return missing
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

var notificationBody = template.Must(template.New("notification").Parse(`<h2>New Application Received</h2>
<p><strong>ID:</strong> #{{.ID}}</p>
<p><strong>Name:</strong> {{.GivenName}} {{.FamilyName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Country:</strong> {{.Country}}</p>
{{if .DesiredRole}}<p><strong>Desired role:</strong> {{.DesiredRole}}</p>
{{end}}<p><strong>Wants job alerts:</strong> {{if .WantsAlerts}}Yes{{else}}No{{end}}</p>
<br>
<p>The candidate's resume is attached to this email.</p>
<p><em>Record stored automatically in the system.</em></p>`))

func (p *Pipeline) buildMessage(id int64, sub *models.Submission) notifier.Message {
	subjectTail := sub.Country
	if sub.DesiredRole != "" {
		subjectTail = sub.DesiredRole
	}

	var body bytes.Buffer
	_ = notificationBody.Execute(&body, struct {
		ID int64
		*models.Submission
	}{ID: id, Submission: sub})

	return notifier.Message{
		From:     p.notification.FromEmail,
		To:       p.notification.Recipient,
		Subject:  fmt.Sprintf("New Application #%d: %s %s - %s", id, sub.GivenName, sub.FamilyName, subjectTail),
		HTMLBody: body.String(),
		Attachment: notifier.Attachment{
			Filename: sub.ResumeFilename,
			Content:  sub.ResumeContent,
		},
	}
}
