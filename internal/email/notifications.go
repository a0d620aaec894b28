package email

import (
	"context"
	"fmt"
	"log"

	"contentradar/internal/config"
	"contentradar/internal/models"
)

// Notifier sends operational notifications about pipeline outcomes.
type Notifier struct {
	service    *Service
	recipients []string
}

// NewNotifier creates a notifier for the configured alert recipients.
func NewNotifier(service *Service, cfg *config.Config) *Notifier {
	return &Notifier{
		service:    service,
		recipients: cfg.NotifyRecipients(),
	}
}

// NotifyRunFailed alerts the configured recipients that a pipeline run
// terminated with a failure.
func (n *Notifier) NotifyRunFailed(_ context.Context, run *models.PipelineRun) {
	if n == nil || n.service == nil || !n.service.IsEnabled() || len(n.recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Pipeline run %d failed (topic %d)", run.ID, run.TopicID)
	body := RunFailedBody(run)

	if err := n.service.SendEmail(n.recipients, subject, body); err != nil {
		log.Printf("Failed to send run failure notification for run %d: %v", run.ID, err)
	}
}

// RunFailedBody renders the plain-text alert for a failed run.
func RunFailedBody(run *models.PipelineRun) string {
	body := fmt.Sprintf(
		"Pipeline run %d for topic %d failed.\n\nJob ID: %s\nStarted: %s\n",
		run.ID, run.TopicID, run.JobID, run.StartedAt.Format("2006-01-02 15:04:05 MST"),
	)
	if run.FinishedAt != nil {
		body += fmt.Sprintf("Finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if run.Detail != "" {
		body += fmt.Sprintf("\nDetail:\n%s\n", run.Detail)
	}
	return body
}
