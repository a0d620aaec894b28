package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"contentradar/internal/config"
	"contentradar/internal/db"
	"contentradar/internal/models"
)

// DashboardHandler renders the operator dashboard.
type DashboardHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(database *db.DB, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{db: database, cfg: cfg}
}

// Index shows the gap queue snapshot, recent pipeline runs, and topic counts.
// Each section degrades to empty on store failure so one bad query does not
// blank the whole page.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	ctx := c.Context()

	queue, err := h.db.GapCandidates(ctx, 20)
	if err != nil {
		slog.Error("dashboard: gap queue unavailable", "error", err)
		queue = []models.Keyword{}
	}

	gapTotal, err := h.db.CountGapKeywords(ctx)
	if err != nil {
		slog.Error("dashboard: gap count unavailable", "error", err)
	}

	runs, err := h.db.ListRecentRuns(ctx, 10)
	if err != nil {
		slog.Error("dashboard: recent runs unavailable", "error", err)
		runs = []models.PipelineRun{}
	}

	runCounts, err := h.db.CountRunsByStatus(ctx)
	if err != nil {
		slog.Error("dashboard: run counts unavailable", "error", err)
		runCounts = map[string]int64{}
	}

	topics, err := h.db.ListTopics(ctx)
	if err != nil {
		slog.Error("dashboard: topics unavailable", "error", err)
		topics = []models.Topic{}
	}

	user, _ := c.Locals("user").(*models.User)

	return c.Render("dashboard", fiber.Map{
		"Title":      "Dashboard",
		"SiteTitle":  h.cfg.SiteTitle,
		"User":       user,
		"Queue":      queue,
		"GapTotal":   gapTotal,
		"Runs":       runs,
		"RunCounts":  runCounts,
		"Topics":     topics,
		"TopicCount": len(topics),
	})
}

// Login renders the login page.
func (h *DashboardHandler) Login(c fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Title":     "Sign in",
		"SiteTitle": h.cfg.SiteTitle,
	})
}
