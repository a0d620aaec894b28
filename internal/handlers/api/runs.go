package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"contentradar/internal/db"
	"contentradar/internal/email"
	"contentradar/internal/models"
	"contentradar/internal/validation"
)

// RunStore is the slice of the store the pipeline run tracker needs.
type RunStore interface {
	ListRecentRuns(ctx context.Context, limit int) ([]models.PipelineRun, error)
	CreateRun(ctx context.Context, run *models.PipelineRun) error
	FinishRun(ctx context.Context, id int64, status, detail string) (*models.PipelineRun, error)
}

// RunHandler handles pipeline run tracking via JSON API.
type RunHandler struct {
	store    RunStore
	policy   StoreFailurePolicy
	notifier *email.Notifier
}

// NewRunHandler creates a new run handler.
func NewRunHandler(store RunStore, policy StoreFailurePolicy, notifier *email.Notifier) *RunHandler {
	return &RunHandler{store: store, policy: policy, notifier: notifier}
}

// List returns recent runs, newest first. Unlike the gap queue, an
// out-of-range limit is rejected outright rather than clamped.
func (h *RunHandler) List(c fiber.Ctx) error {
	limit, err := validation.RunLimit.Apply(c.Query("limit", ""))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	runs, err := h.store.ListRecentRuns(c.Context(), limit)
	if err != nil {
		if h.policy == FailSoft {
			slog.Error("run listing failed, returning empty default", "error", err)
			runs = nil
		} else {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch runs")
		}
	}

	if runs == nil {
		runs = []models.PipelineRun{}
	}

	return jsonSuccess(c, fiber.Map{"runs": runs})
}

// Create records the start of a generation attempt.
func (h *RunHandler) Create(c fiber.Ctx) error {
	var body struct {
		TopicID int64  `json:"topicId"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.TopicID <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "topicId must be a positive integer")
	}

	run := &models.PipelineRun{TopicID: body.TopicID, Detail: body.Detail}
	if err := h.store.CreateRun(c.Context(), run); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to record run")
	}

	return jsonSuccess(c, run)
}

// SetStatus applies the terminal transition for a run. A run that has
// already reached a terminal status rejects further writes with 409.
func (h *RunHandler) SetStatus(c fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid run id")
	}

	var body struct {
		Status string `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidRunTransition(models.RunStarted, body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "status must be succeeded or failed")
	}

	run, err := h.store.FinishRun(c.Context(), id, body.Status, body.Detail)
	if err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			return jsonError(c, fiber.StatusNotFound, "run not found")
		}
		if errors.Is(err, db.ErrInvalidRunStatus) {
			return jsonError(c, fiber.StatusBadRequest, "status must be succeeded or failed")
		}
		if errors.Is(err, db.ErrRunFinished) {
			return jsonError(c, fiber.StatusConflict, "run already finished")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update run")
	}

	if run.Status == models.RunFailed && h.notifier != nil {
		go h.notifier.NotifyRunFailed(context.Background(), run)
	}

	return jsonSuccess(c, run)
}
