package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"splitpath/internal/config"
	"splitpath/internal/db"
	"splitpath/internal/jobs"
	"splitpath/internal/metrics"
	"splitpath/internal/models"
	"splitpath/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

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

	// Seed declared experiments from the optional config file
	if yamlCfg, err := config.LoadYAMLConfig(); err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	} else if yamlCfg != nil {
		declared := make([]models.Experiment, 0, len(yamlCfg.Experiments))
		for _, e := range yamlCfg.Experiments {
			declared = append(declared, e.ToModel())
		}
		if err := database.EnsureExperiments(ctx, declared); err != nil {
			log.Fatalf("Failed to seed declared experiments: %v", err)
		}
		log.Printf("Ensured %d declared experiments", len(declared))
	}

	if cfg.SeedDev {
		if err := database.SeedDevExperiment(ctx); err != nil {
			log.Printf("Warning: failed to seed dev experiment: %v", err)
		}
	}

	// Register Prometheus collectors
	metrics.Init(database)

	// Initialize server and routes
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Background variant path checker
	if cfg.EnablePathChecker {
		checker := jobs.NewPathChecker(database, cfg.BaseURL, cfg.PathCheckInterval, cfg.PathCheckMaxAge)
		go checker.Start(ctx)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

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
