package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"splitpath/internal/config"
	"splitpath/internal/db"
	"splitpath/internal/models"
	"splitpath/internal/stats"
)

// DashboardHandler renders the experiment dashboard pages.
type DashboardHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(database *db.DB, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{db: database, cfg: cfg}
}

// Index renders the experiment list page.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)

	experiments, err := h.db.ListExperiments(c.Context())
	if err != nil {
		return err
	}

	return c.Render("index", fiber.Map{
		"Title":       "Experiments",
		"User":        user,
		"Experiments": experiments,
	})
}

// Show renders the experiment detail page with per-variant stats and
// the significance analysis.
func (h *DashboardHandler) Show(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid experiment id")
	}

	exp, err := h.db.GetExperimentByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrExperimentNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "experiment not found")
		}
		return err
	}

	variants := make([]models.VariantWithStats, 0, len(exp.Variants))
	for _, v := range exp.Variants {
		vs, err := h.db.AggregateVariantStats(c.Context(), v.ID, h.cfg.StatsWindow())
		if err != nil {
			return err
		}
		variants = append(variants, models.VariantWithStats{Variant: v, Stats: *vs})
	}

	return c.Render("experiment", fiber.Map{
		"Title":      exp.Name,
		"User":       user,
		"Experiment": exp,
		"Variants":   variants,
		"Analysis":   stats.Analyze(variants),
		"ScriptURL":  h.cfg.BaseURL + "/sp.js",
	})
}

// Login renders the login page.
func (h *DashboardHandler) Login(c fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Title": "Sign in",
	})
}
