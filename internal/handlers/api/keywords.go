package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"contentradar/internal/db"
	"contentradar/internal/models"
	"contentradar/internal/validation"
)

// KeywordStore is the slice of the store the keyword ledger needs.
type KeywordStore interface {
	UpdateCoverage(ctx context.Context, id int64, pageExists bool) (*models.Keyword, error)
	UpsertKeyword(ctx context.Context, kw *models.Keyword) error
	ListKeywords(ctx context.Context, filter models.KeywordFilter) ([]models.Keyword, error)
}

// KeywordHandler handles keyword ledger operations via JSON API.
type KeywordHandler struct {
	store  KeywordStore
	policy StoreFailurePolicy
}

// NewKeywordHandler creates a new keyword handler.
func NewKeywordHandler(store KeywordStore, policy StoreFailurePolicy) *KeywordHandler {
	return &KeywordHandler{store: store, policy: policy}
}

// PatchCoverage flips the page-existence flag on a keyword. This is the
// only mutation this service performs on a keyword: term, score, and
// matched app stay owned by the external scoring process.
func (h *KeywordHandler) PatchCoverage(c fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	var body struct {
		PageExists *bool `json:"pageExists"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.PageExists == nil {
		return jsonError(c, fiber.StatusBadRequest, "pageExists is required")
	}

	keyword, err := h.store.UpdateCoverage(c.Context(), id, *body.PageExists)
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update keyword")
	}

	return jsonSuccess(c, keyword)
}

// Upsert records a keyword discovered or rescored by the crawler.
func (h *KeywordHandler) Upsert(c fiber.Ctx) error {
	var body struct {
		Term           string  `json:"term"`
		StrategicScore float64 `json:"strategicScore"`
		MatchedApp     string  `json:"matchedApp"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Term = validation.NormalizeTerm(body.Term)
	if body.Term == "" {
		return jsonError(c, fiber.StatusBadRequest, "term is required")
	}

	keyword := &models.Keyword{
		Term:           body.Term,
		StrategicScore: body.StrategicScore,
	}
	if body.MatchedApp != "" {
		keyword.MatchedApp = &body.MatchedApp
	}

	if err := h.store.UpsertKeyword(c.Context(), keyword); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to store keyword")
	}

	return jsonSuccess(c, keyword)
}

// List returns keywords for the admin browse view, optionally filtered.
func (h *KeywordHandler) List(c fiber.Ctx) error {
	limit, err := validation.BrowseLimit.Apply(c.Query("limit", ""))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	filter := models.KeywordFilter{
		UncoveredOnly: c.Query("uncovered", "") != "",
		Term:          c.Query("q", ""),
		Limit:         limit,
	}
	if raw := c.Query("min_score", ""); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "min_score must be a number")
		}
		filter.MinScore = minScore
	}

	keywords, err := h.store.ListKeywords(c.Context(), filter)
	if err != nil {
		if h.policy == FailSoft {
			slog.Error("keyword listing failed, returning empty default", "error", err)
			keywords = nil
		} else {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
		}
	}

	if keywords == nil {
		keywords = []models.Keyword{}
	}

	return jsonSuccess(c, keywords)
}
