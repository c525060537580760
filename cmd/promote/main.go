// Command main runs a single scheduled-post promotion pass and exits.
// Useful for cron-style deployments and for draining a backlog by hand.
package main

import (
	"context"
	"log"
	"time"

	"tidepool/internal/config"
	"tidepool/internal/database"
	"tidepool/internal/middleware"
	"tidepool/internal/repository"
	"tidepool/internal/scheduler"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	promoter := scheduler.NewPromoter(
		repository.NewScheduledPostRepository(db), cfg.PromoteEvery(), middleware.Logger)
	promoted, failed := promoter.RunOnce(ctx)
	log.Printf("promotion pass complete: promoted=%d failed=%d", promoted, failed)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
