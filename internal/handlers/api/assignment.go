package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"splitpath/internal/db"
	"splitpath/internal/metrics"
)

// AssignmentHandler resolves visitors to experiment variants.
type AssignmentHandler struct {
	db *db.DB
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(database *db.DB) *AssignmentHandler {
	return &AssignmentHandler{db: database}
}

// Resolve handles GET /assignment. A returning visitor keeps the variant
// of their earliest recorded event; a new visitor gets a weighted random
// pick. The caller is expected to record a view event afterwards, which
// is what makes the assignment stick.
func (h *AssignmentHandler) Resolve(c fiber.Ctx) error {
	experimentID, err := uuid.Parse(c.Query("experimentId"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid experimentId")
	}
	visitorID := c.Query("visitorId")

	assignment, err := h.db.ResolveVariant(c.Context(), experimentID, visitorID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrExperimentNotFound):
			return jsonError(c, fiber.StatusNotFound, "experiment not found or not active")
		case errors.Is(err, db.ErrNoVariants):
			return jsonError(c, fiber.StatusNotFound, "experiment has no variants")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to resolve variant")
	}

	metrics.RecordAssignment(assignment.IsReturningVisitor)

	return jsonSuccess(c, assignment)
}
