package handlers

import (
	"github.com/gofiber/fiber/v3"

	"splitpath/internal/config"
	"splitpath/internal/tracker"
)

// TrackerHandler serves the client tracking script.
type TrackerHandler struct {
	script string
}

// NewTrackerHandler creates a tracker handler. The script is generated
// once at startup since it only depends on the configured base URL.
func NewTrackerHandler(cfg *config.Config) *TrackerHandler {
	return &TrackerHandler{script: tracker.GenerateScript(cfg.BaseURL)}
}

// Script serves the tracking script embedded by intro pages.
func (h *TrackerHandler) Script(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/javascript; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.SendString(h.script)
}
