package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"contentradar/internal/db"
	"contentradar/internal/models"
	"contentradar/internal/validation"
)

// TopicStore is the slice of the store the topic registry needs.
type TopicStore interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
	GetTopicByID(ctx context.Context, id int64) (*models.Topic, error)
	CreateTopic(ctx context.Context, topic *models.Topic) error
	UpdateTopic(ctx context.Context, topic *models.Topic) error
	DeleteTopic(ctx context.Context, id int64) error
}

// TopicHandler handles topic registry operations via JSON API.
type TopicHandler struct {
	store  TopicStore
	policy StoreFailurePolicy
}

// NewTopicHandler creates a new topic handler.
func NewTopicHandler(store TopicStore, policy StoreFailurePolicy) *TopicHandler {
	return &TopicHandler{store: store, policy: policy}
}

// topicBody carries pointers for the free-text fields so an update can
// tell an omitted key apart from an explicit empty string.
type topicBody struct {
	Label         string   `json:"label"`
	SearchQueries []string `json:"searchQueries"`
	Description   *string  `json:"description"`
	Status        string   `json:"status"`
	StandaloneURL *string  `json:"standaloneUrl"`
}

// List returns all topic configurations. searchQueries is always an
// array, even when the stored blob is absent or malformed.
func (h *TopicHandler) List(c fiber.Ctx) error {
	topics, err := h.store.ListTopics(c.Context())
	if err != nil {
		if h.policy == FailSoft {
			slog.Error("topic listing failed, returning empty default", "error", err)
			topics = nil
		} else {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch topics")
		}
	}

	if topics == nil {
		topics = []models.Topic{}
	}

	return jsonSuccess(c, fiber.Map{"topics": topics})
}

// Create registers a new topic configuration.
func (h *TopicHandler) Create(c fiber.Ctx) error {
	var body topicBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Label == "" {
		return jsonError(c, fiber.StatusBadRequest, "label is required")
	}
	if body.Status != "" && !models.ValidTopicStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid topic status")
	}
	if body.StandaloneURL != nil && *body.StandaloneURL != "" {
		if valid, msg := validation.ValidateURL(*body.StandaloneURL); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}

	topic := &models.Topic{
		Label:         body.Label,
		SearchQueries: body.SearchQueries,
		Status:        body.Status,
	}
	if body.Description != nil {
		topic.Description = *body.Description
	}
	if body.StandaloneURL != nil {
		topic.StandaloneURL = *body.StandaloneURL
	}
	if err := h.store.CreateTopic(c.Context(), topic); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create topic")
	}

	return jsonSuccess(c, topic)
}

// Update applies a partial update to a topic's configuration. Fields
// omitted from the body are left as stored.
func (h *TopicHandler) Update(c fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid topic id")
	}

	var body topicBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Status != "" && !models.ValidTopicStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid topic status")
	}
	if body.StandaloneURL != nil && *body.StandaloneURL != "" {
		if valid, msg := validation.ValidateURL(*body.StandaloneURL); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}

	topic, err := h.store.GetTopicByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrTopicNotFound) {
			return jsonError(c, fiber.StatusNotFound, "topic not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch topic")
	}

	// Merge-if-present: keys absent from the body keep their stored
	// values; an explicit empty string clears the field.
	if body.Label != "" {
		topic.Label = body.Label
	}
	if body.SearchQueries != nil {
		topic.SearchQueries = body.SearchQueries
	}
	if body.Description != nil {
		topic.Description = *body.Description
	}
	if body.Status != "" {
		topic.Status = body.Status
	}
	if body.StandaloneURL != nil {
		topic.StandaloneURL = *body.StandaloneURL
	}

	if err := h.store.UpdateTopic(c.Context(), topic); err != nil {
		if errors.Is(err, db.ErrTopicNotFound) {
			return jsonError(c, fiber.StatusNotFound, "topic not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update topic")
	}

	return jsonSuccess(c, topic)
}

// Delete removes a topic unconditionally. The operation is idempotent
// at the API boundary: deleting an id that does not exist still
// succeeds and echoes the id back.
func (h *TopicHandler) Delete(c fiber.Ctx) error {
	var body struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.ID <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.store.DeleteTopic(c.Context(), body.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete topic")
	}

	return jsonSuccess(c, fiber.Map{"deleted": body.ID})
}
