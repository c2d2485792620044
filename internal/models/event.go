package models

import (
	"time"

	"github.com/google/uuid"
)

// Event kind constants
const (
	KindView       = "view"
	KindEngagement = "engagement"
	KindConversion = "conversion"
	KindBounce     = "bounce"
)

// Event is an immutable tracking fact. Rows are inserted once and never
// updated or deleted; all counts are derived at read time.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	VariantID uuid.UUID      `json:"variant_id"`
	Kind      string         `json:"kind"`
	SessionID *string        `json:"session_id"`
	VisitorID *string        `json:"visitor_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// EventKindCount is an aggregate row for the Prometheus collector.
type EventKindCount struct {
	ExperimentName string
	Kind           string
	Count          int64
}
