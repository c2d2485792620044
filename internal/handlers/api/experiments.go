package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"splitpath/internal/config"
	"splitpath/internal/db"
	"splitpath/internal/models"
	"splitpath/internal/stats"
	"splitpath/internal/validation"
)

// ExperimentHandler handles experiment CRUD operations via JSON API.
type ExperimentHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewExperimentHandler creates a new API experiment handler.
func NewExperimentHandler(database *db.DB, cfg *config.Config) *ExperimentHandler {
	return &ExperimentHandler{db: database, cfg: cfg}
}

// List returns all experiments with variant counts and view totals.
func (h *ExperimentHandler) List(c fiber.Ctx) error {
	experiments, err := h.db.ListExperiments(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch experiments")
	}

	return jsonSuccess(c, experiments)
}

// Get returns a single experiment with per-variant stats and the
// significance analysis.
func (h *ExperimentHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid experiment id")
	}

	exp, err := h.db.GetExperimentByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrExperimentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "experiment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch experiment")
	}

	variants := make([]models.VariantWithStats, 0, len(exp.Variants))
	for _, v := range exp.Variants {
		vs, err := h.db.AggregateVariantStats(c.Context(), v.ID, h.cfg.StatsWindow())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to aggregate stats")
		}
		variants = append(variants, models.VariantWithStats{Variant: v, Stats: *vs})
	}

	return jsonSuccess(c, fiber.Map{
		"experiment": exp,
		"variants":   variants,
		"analysis":   stats.Analyze(variants),
	})
}

// Create creates a new experiment with its variants.
func (h *ExperimentHandler) Create(c fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Status   string `json:"status"`
		Variants []struct {
			Name      string `json:"name"`
			Path      string `json:"path"`
			Weight    int    `json:"weight"`
			IsControl bool   `json:"is_control"`
		} `json:"variants"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	if len(body.Variants) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "at least one variant is required")
	}
	if body.Status != "" && !models.ValidStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	exp := &models.Experiment{
		Name:   body.Name,
		Status: body.Status,
	}
	for _, v := range body.Variants {
		if v.Name == "" || v.Path == "" {
			return jsonError(c, fiber.StatusBadRequest, "variant name and path are required")
		}
		if !validation.ValidatePath(v.Path) {
			return jsonError(c, fiber.StatusBadRequest, "invalid variant path: "+v.Path)
		}
		if v.Weight < 0 {
			return jsonError(c, fiber.StatusBadRequest, "variant weight must not be negative")
		}
		exp.Variants = append(exp.Variants, models.Variant{
			Name:      v.Name,
			Path:      v.Path,
			Weight:    v.Weight,
			IsControl: v.IsControl,
		})
	}

	if err := h.db.CreateExperiment(c.Context(), exp); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateName):
			return jsonError(c, fiber.StatusConflict, "an experiment with this name already exists")
		case errors.Is(err, db.ErrDuplicateVariant):
			return jsonError(c, fiber.StatusConflict, "duplicate variant name within experiment")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create experiment")
	}

	return jsonCreated(c, exp)
}

// UpdateStatus transitions an experiment to a new status.
func (h *ExperimentHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid experiment id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	if err := h.db.UpdateExperimentStatus(c.Context(), id, body.Status); err != nil {
		if errors.Is(err, db.ErrExperimentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "experiment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update experiment")
	}

	return jsonSuccess(c, fiber.Map{
		"id":     id,
		"status": body.Status,
	})
}

// Delete removes an experiment. Variants and events cascade.
func (h *ExperimentHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid experiment id")
	}

	if err := h.db.DeleteExperiment(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrExperimentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "experiment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete experiment")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "experiment deleted",
	})
}
