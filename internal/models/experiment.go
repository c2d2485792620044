package models

import (
	"time"

	"github.com/google/uuid"
)

// Experiment status constants
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Variant health status constants
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// Experiment represents an A/B test over a set of intro-page variants.
// Status transitions are manual (administrator-driven); the service never
// changes a status on its own.
type Experiment struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Populated by queries that join variants, in position order.
	Variants []Variant `json:"variants,omitempty"`
}

// IsActive returns true if the experiment is accepting assignments.
func (e *Experiment) IsActive() bool {
	return e.Status == StatusActive
}

// ControlVariant returns the variant flagged as control, or nil.
func (e *Experiment) ControlVariant() *Variant {
	for i := range e.Variants {
		if e.Variants[i].IsControl {
			return &e.Variants[i]
		}
	}
	return nil
}

// Variant represents one routable page version inside an experiment.
// Weight is a relative selection probability; a zero-weight variant is
// never freshly assigned but can still accrue events when targeted
// directly by path or id.
type Variant struct {
	ID           uuid.UUID  `json:"id"`
	ExperimentID uuid.UUID  `json:"experiment_id"`
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Weight       int        `json:"weight"`
	IsControl    bool       `json:"is_control"`
	Position     int        `json:"position"`

	// Background path checker results.
	HealthStatus    string     `json:"health_status"`
	HealthCheckedAt *time.Time `json:"health_checked_at"`
	HealthError     *string    `json:"health_error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is a recognized experiment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusArchived:
		return true
	}
	return false
}
