package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"contentradar/internal/models"
	"contentradar/internal/validation"
)

// GapStore is the read view the gap queue needs from the store.
type GapStore interface {
	GapCandidates(ctx context.Context, limit int) ([]models.Keyword, error)
}

// QueueHandler serves the gap queue: the highest-value uncovered,
// unmatched keywords first.
type QueueHandler struct {
	store  GapStore
	policy StoreFailurePolicy
}

// NewQueueHandler creates a new gap queue handler.
func NewQueueHandler(store GapStore, policy StoreFailurePolicy) *QueueHandler {
	return &QueueHandler{store: store, policy: policy}
}

// List returns the next gap queue candidates. The limit is clamped to
// [1, 50] with a default of 20; an empty result means no work is
// pending, not an error.
func (h *QueueHandler) List(c fiber.Ctx) error {
	limit, err := validation.QueueLimit.Apply(c.Query("limit", ""))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	keywords, err := h.store.GapCandidates(c.Context(), limit)
	if err != nil {
		if h.policy == FailSoft {
			slog.Error("gap queue read failed, returning empty default", "error", err)
			keywords = nil
		} else {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch gap queue")
		}
	}

	// Ensure non-null array in JSON
	if keywords == nil {
		keywords = []models.Keyword{}
	}

	return jsonSuccess(c, fiber.Map{
		"keywords": keywords,
		"total":    len(keywords),
	})
}
