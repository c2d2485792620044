package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"splitpath/internal/models"
	"splitpath/internal/validation"
)

// EventInput is the wire-level input for recording an event. Either
// VariantID or Path must identify the target variant.
type EventInput struct {
	VariantID *uuid.UUID
	Path      string
	Kind      string
	SessionID *string
	VisitorID *string
	Metadata  map[string]any
}

// RecordEvent validates the input, resolves the target variant, and
// persists one immutable event row. No existing row is ever updated;
// counts are always derived at read time.
func (d *DB) RecordEvent(ctx context.Context, input EventInput) (*models.Event, error) {
	kind := validation.NormalizeEventKind(input.Kind)
	if !validation.ValidEventKind(kind) {
		return nil, ErrInvalidEventKind
	}

	var variantID uuid.UUID
	switch {
	case input.VariantID != nil:
		variantID = *input.VariantID
	case input.Path != "":
		variant, err := d.GetActiveVariantByPath(ctx, input.Path)
		if err != nil {
			return nil, err
		}
		variantID = variant.ID
	default:
		return nil, ErrMissingTarget
	}

	event := &models.Event{
		VariantID: variantID,
		Kind:      kind,
		SessionID: input.SessionID,
		VisitorID: input.VisitorID,
		Metadata:  validation.NormalizeMetadata(input.Metadata),
	}
	if err := d.insertEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// insertEvent persists a single event row.
func (d *DB) insertEvent(ctx context.Context, event *models.Event) error {
	return d.Pool.QueryRow(ctx, `
		INSERT INTO events (variant_id, kind, session_id, visitor_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, event.VariantID, event.Kind, event.SessionID, event.VisitorID, event.Metadata).
		Scan(&event.ID, &event.CreatedAt)
}

// GetFirstVariantForVisitor returns the variant referenced by the
// visitor's earliest event within the experiment, establishing the
// sticky assignment. Returns ErrVariantNotFound when the visitor has no
// prior event there.
func (d *DB) GetFirstVariantForVisitor(ctx context.Context, experimentID uuid.UUID, visitorID string) (uuid.UUID, error) {
	var variantID uuid.UUID
	err := d.Pool.QueryRow(ctx, `
		SELECT ev.variant_id
		FROM events ev
		JOIN variants v ON v.id = ev.variant_id
		WHERE ev.visitor_id = $1 AND v.experiment_id = $2
		ORDER BY ev.created_at ASC, ev.id ASC
		LIMIT 1
	`, visitorID, experimentID).Scan(&variantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrVariantNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return variantID, nil
}

// GetRecentEventsByVariant retrieves the newest events for a variant,
// bounded by limit.
func (d *DB) GetRecentEventsByVariant(ctx context.Context, variantID uuid.UUID, limit int) ([]models.Event, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, variant_id, kind, session_id, visitor_id, metadata, created_at
		FROM events
		WHERE variant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, variantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.VariantID, &e.Kind, &e.SessionID, &e.VisitorID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// GetEventCountsByExperimentKind returns total event counts grouped by
// experiment name and kind, for the Prometheus collector.
func (d *DB) GetEventCountsByExperimentKind(ctx context.Context) ([]models.EventKindCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT e.name, ev.kind, COUNT(*)
		FROM events ev
		JOIN variants v ON v.id = ev.variant_id
		JOIN experiments e ON e.id = v.experiment_id
		GROUP BY e.name, ev.kind
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.EventKindCount
	for rows.Next() {
		var c models.EventKindCount
		if err := rows.Scan(&c.ExperimentName, &c.Kind, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
