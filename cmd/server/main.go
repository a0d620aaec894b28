package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"contentradar/internal/config"
	"contentradar/internal/db"
	"contentradar/internal/email"
	"contentradar/internal/jobs"
	"contentradar/internal/metrics"
	"contentradar/internal/server"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	radarCfg, err := config.LoadRadarConfig()
	if err != nil {
		log.Fatalf("Failed to load radar config: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Seed the keyword ledger in development
	if cfg.IsDev() && radarCfg != nil && len(radarCfg.Seed.Keywords) > 0 {
		if err := database.SeedDevKeywords(ctx, radarCfg.Seed.Keywords); err != nil {
			log.Printf("Warning: Failed to seed keywords: %v", err)
		} else {
			log.Printf("Seeded %d keywords", len(radarCfg.Seed.Keywords))
		}
	}

	// Register Prometheus collectors
	metrics.Init(database)

	// Email notifications for failed runs
	emailService := email.NewService(cfg)
	notifier := email.NewNotifier(emailService, cfg)
	if cfg.IsEmailEnabled() {
		log.Println("Run-failure email notifications enabled")
	}

	// Initialize server and routes
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, notifier); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Background coverage verification
	if radarCfg != nil && radarCfg.Verifier.Enabled {
		verifier := jobs.NewCoverageVerifier(database, radarCfg.Verifier.Interval.Std(), radarCfg.Verifier.Timeout.Std())
		go verifier.Start(ctx)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
