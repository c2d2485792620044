package api

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"splitpath/internal/db"
)

func TestResolveAssignment_InvalidExperimentID(t *testing.T) {
	app := fiber.New()
	handler := NewAssignmentHandler(&db.DB{})
	app.Get("/assignment", handler.Resolve)

	tests := []string{
		"/assignment",
		"/assignment?experimentId=",
		"/assignment?experimentId=not-a-uuid",
		"/assignment?experimentId=123",
	}
	for _, path := range tests {
		req, _ := http.NewRequest("GET", path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %s failed: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, resp.StatusCode)
		}
	}
}
