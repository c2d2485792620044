package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"splitpath/internal/db"
	"splitpath/internal/validation"
)

// EventHandler records tracking events sent by intro pages.
type EventHandler struct {
	db *db.DB
}

// NewEventHandler creates a new event handler.
func NewEventHandler(database *db.DB) *EventHandler {
	return &EventHandler{db: database}
}

// Create handles POST /events. The body identifies the target variant by
// id or by page path; sendBeacon payloads arrive as text/plain so the
// body is decoded manually rather than via content-type negotiation.
func (h *EventHandler) Create(c fiber.Ctx) error {
	var body struct {
		VariantID string         `json:"variant_id"`
		Path      string         `json:"path"`
		Kind      string         `json:"kind"`
		SessionID string         `json:"session_id"`
		VisitorID string         `json:"visitor_id"`
		Metadata  map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	input := db.EventInput{
		Kind:     body.Kind,
		Metadata: body.Metadata,
	}

	if body.VariantID != "" {
		id, err := uuid.Parse(body.VariantID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid variant_id")
		}
		input.VariantID = &id
	}
	if body.Path != "" {
		if !validation.ValidatePath(body.Path) {
			return jsonError(c, fiber.StatusBadRequest, "invalid path")
		}
		input.Path = body.Path
	}
	if body.SessionID != "" {
		input.SessionID = &body.SessionID
	}
	if body.VisitorID != "" {
		input.VisitorID = &body.VisitorID
	}

	event, err := h.db.RecordEvent(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrInvalidEventKind):
			return jsonError(c, fiber.StatusBadRequest, "invalid event kind")
		case errors.Is(err, db.ErrMissingTarget):
			return jsonError(c, fiber.StatusBadRequest, "variant_id or path is required")
		case errors.Is(err, db.ErrVariantNotFound):
			return jsonError(c, fiber.StatusNotFound, "no active variant for path")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to record event")
	}

	return jsonCreated(c, fiber.Map{
		"id": event.ID,
	})
}
