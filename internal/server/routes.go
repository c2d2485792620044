package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitpath/internal/db"
	"splitpath/internal/handlers"
	"splitpath/internal/handlers/api"
	"splitpath/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	probeHandler := handlers.NewProbeHandler(database)
	trackerHandler := handlers.NewTrackerHandler(s.Cfg)
	dashboardHandler := handlers.NewDashboardHandler(database, s.Cfg)
	assignmentHandler := api.NewAssignmentHandler(database)
	eventHandler := api.NewEventHandler(database)
	experimentHandler := api.NewExperimentHandler(database, s.Cfg)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Tracking endpoints. Called cross-origin by the pages under test,
	// so never behind auth.
	s.App.Get("/sp.js", trackerHandler.Script)
	s.App.Get("/assignment", assignmentHandler.Resolve)
	s.App.Post("/events", eventHandler.Create)

	// Auth routes - OIDC is required for dashboard access
	if s.Cfg.OIDCIssuer == "" {
		log.Println("OIDC_ISSUER not set; dashboard login is unavailable")
	} else {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	}
	s.App.Get("/login", dashboardHandler.Login)

	// Dashboard (authenticated)
	s.App.Get("/", authMiddleware.RequireAuth, dashboardHandler.Index)
	s.App.Get("/experiments/:id", authMiddleware.RequireAuth, dashboardHandler.Show)

	// Admin JSON API
	apiGroup := s.App.Group("/api", authMiddleware.RequireAPIAuth)
	apiGroup.Get("/experiments", experimentHandler.List)
	apiGroup.Get("/experiments/:id", experimentHandler.Get)
	apiGroup.Post("/experiments", authMiddleware.RequireAdmin, experimentHandler.Create)
	apiGroup.Put("/experiments/:id/status", authMiddleware.RequireAdmin, experimentHandler.UpdateStatus)
	apiGroup.Delete("/experiments/:id", authMiddleware.RequireAdmin, experimentHandler.Delete)

	return nil
}
