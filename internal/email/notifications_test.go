package email

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"contentradar/internal/models"
)

func TestRunFailedBody(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	finished := started.Add(2 * time.Minute)

	run := &models.PipelineRun{
		ID:         17,
		TopicID:    4,
		JobID:      uuid.MustParse("a2f1c6de-0d1b-4c3a-9e76-1f2a3b4c5d6e"),
		Status:     models.RunFailed,
		Detail:     "generation engine timeout",
		StartedAt:  started,
		FinishedAt: &finished,
	}

	body := RunFailedBody(run)

	for _, want := range []string{
		"run 17",
		"topic 4",
		"a2f1c6de-0d1b-4c3a-9e76-1f2a3b4c5d6e",
		"generation engine timeout",
		"2026-03-14 09:30:00",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("RunFailedBody() missing %q in:\n%s", want, body)
		}
	}
}

func TestRunFailedBody_NoDetail(t *testing.T) {
	run := &models.PipelineRun{
		ID:        1,
		TopicID:   2,
		Status:    models.RunFailed,
		StartedAt: time.Now(),
	}

	body := RunFailedBody(run)
	if strings.Contains(body, "Detail:") {
		t.Errorf("RunFailedBody() should omit empty detail, got:\n%s", body)
	}
	if strings.Contains(body, "Finished:") {
		t.Errorf("RunFailedBody() should omit missing finish time, got:\n%s", body)
	}
}
