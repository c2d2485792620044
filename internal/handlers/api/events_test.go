package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"splitpath/internal/db"
)

// newEventTestApp builds a minimal app around the event handler. The
// cases below are rejected before any query runs, so no database
// connection is needed.
func newEventTestApp() *fiber.App {
	app := fiber.New()
	handler := NewEventHandler(&db.DB{})
	app.Post("/events", handler.Create)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func postPut(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, _ := http.NewRequest("PUT", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func TestCreateEvent_InvalidBody(t *testing.T) {
	app := newEventTestApp()

	resp, body := postJSON(t, app, "/events", "{not json")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if body["status"] != "error" {
		t.Errorf("envelope status = %v, want error", body["status"])
	}
}

func TestCreateEvent_InvalidKind(t *testing.T) {
	app := newEventTestApp()

	resp, body := postJSON(t, app, "/events",
		`{"variant_id":"2f9d9f1e-68d8-4a5c-9d8a-8f3f6a3a1b11","kind":"pageview"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "kind") {
		t.Errorf("error = %q, want mention of kind", msg)
	}
}

func TestCreateEvent_MissingTarget(t *testing.T) {
	app := newEventTestApp()

	resp, body := postJSON(t, app, "/events", `{"kind":"view"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "path") {
		t.Errorf("error = %q, want mention of missing target", msg)
	}
}

func TestCreateEvent_BadVariantID(t *testing.T) {
	app := newEventTestApp()

	resp, _ := postJSON(t, app, "/events", `{"variant_id":"not-a-uuid","kind":"view"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateEvent_BadPath(t *testing.T) {
	app := newEventTestApp()

	resp, _ := postJSON(t, app, "/events", `{"path":"https://evil.example/x","kind":"view"}`)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
