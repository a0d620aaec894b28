package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentradar/internal/db"
	"contentradar/internal/email"
	"contentradar/internal/handlers"
	"contentradar/internal/handlers/api"
	"contentradar/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, notifier *email.Notifier) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers. Read-side handlers degrade to empty results when
	// the store is down; mutation handlers always surface the failure.
	queueHandler := api.NewQueueHandler(database, api.FailSoft)
	keywordHandler := api.NewKeywordHandler(database, api.FailLoud)
	topicHandler := api.NewTopicHandler(database, api.FailSoft)
	runHandler := api.NewRunHandler(database, api.FailLoud, notifier)
	healthHandler := api.NewHealthHandler(database)
	dashboardHandler := handlers.NewDashboardHandler(database, s.Cfg)

	// Auth routes - OIDC is always required for frontend access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All users must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)
	s.App.Get("/login", dashboardHandler.Login)

	// Dashboard (admins only)
	s.App.Get("/", authMiddleware.RequireAdminPage, dashboardHandler.Index)

	// Operational endpoints
	s.App.Get("/api/health", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes (admins only)
	admin := authMiddleware.RequireAdmin

	s.App.Get("/api/queue", admin, queueHandler.List)

	s.App.Get("/api/keywords", admin, keywordHandler.List)
	s.App.Post("/api/keywords", admin, keywordHandler.Upsert)
	s.App.Patch("/api/keywords/:id", admin, keywordHandler.PatchCoverage)

	s.App.Get("/api/topics", admin, topicHandler.List)
	s.App.Post("/api/topics", admin, topicHandler.Create)
	s.App.Put("/api/topics/:id", admin, topicHandler.Update)
	s.App.Delete("/api/topics", admin, topicHandler.Delete)

	s.App.Get("/api/runs", admin, runHandler.List)
	s.App.Post("/api/runs", admin, runHandler.Create)
	s.App.Post("/api/runs/:id/status", admin, runHandler.SetStatus)

	return nil
}
