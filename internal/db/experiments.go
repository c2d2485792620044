package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"splitpath/internal/models"
)

// experimentColumns is the standard column list for experiment queries.
const experimentColumns = `id, name, status, starts_at, ends_at, created_at, updated_at`

// scanExperiment scans a row into an Experiment struct.
func scanExperiment(row pgx.Row) (*models.Experiment, error) {
	var exp models.Experiment
	err := row.Scan(
		&exp.ID,
		&exp.Name,
		&exp.Status,
		&exp.StartsAt,
		&exp.EndsAt,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExperimentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// CreateExperiment creates an experiment and its variants in one
// transaction. Variant position follows slice order.
func (d *DB) CreateExperiment(ctx context.Context, exp *models.Experiment) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status := exp.Status
	if status == "" {
		status = models.StatusActive
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO experiments (name, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, exp.Name, status, exp.StartsAt, exp.EndsAt).Scan(&exp.ID, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateName
		}
		return err
	}
	exp.Status = status

	for i := range exp.Variants {
		v := &exp.Variants[i]
		v.ExperimentID = exp.ID
		v.Position = i
		if v.HealthStatus == "" {
			v.HealthStatus = models.HealthUnknown
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO variants (experiment_id, name, path, weight, is_control, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`, v.ExperimentID, v.Name, v.Path, v.Weight, v.IsControl, v.Position).
			Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicateVariant
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetExperimentByID retrieves an experiment with its variants in
// position order.
func (d *DB) GetExperimentByID(ctx context.Context, id uuid.UUID) (*models.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE id = $1`
	exp, err := scanExperiment(d.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	variants, err := d.GetVariantsByExperiment(ctx, exp.ID)
	if err != nil {
		return nil, err
	}
	exp.Variants = variants
	return exp, nil
}

// GetExperimentByName retrieves an experiment by its unique name.
func (d *DB) GetExperimentByName(ctx context.Context, name string) (*models.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE name = $1`
	exp, err := scanExperiment(d.Pool.QueryRow(ctx, query, name))
	if err != nil {
		return nil, err
	}

	variants, err := d.GetVariantsByExperiment(ctx, exp.ID)
	if err != nil {
		return nil, err
	}
	exp.Variants = variants
	return exp, nil
}

// ListExperiments retrieves all experiments with variant counts and
// total view counts, newest first.
func (d *DB) ListExperiments(ctx context.Context) ([]models.ExperimentSummary, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT e.id, e.name, e.status, e.starts_at, e.ends_at, e.created_at, e.updated_at,
			COUNT(DISTINCT v.id) AS variant_count,
			COUNT(ev.id) FILTER (WHERE ev.kind = 'view') AS total_views
		FROM experiments e
		LEFT JOIN variants v ON v.experiment_id = e.id
		LEFT JOIN events ev ON ev.variant_id = v.id
		GROUP BY e.id
		ORDER BY e.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.ExperimentSummary
	for rows.Next() {
		var s models.ExperimentSummary
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Status,
			&s.StartsAt,
			&s.EndsAt,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.VariantCount,
			&s.TotalViews,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// UpdateExperimentStatus transitions an experiment to a new status.
// Transitions are always administrator-driven.
func (d *DB) UpdateExperimentStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE experiments SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrExperimentNotFound
	}
	return nil
}

// DeleteExperiment deletes an experiment. Variants and events cascade.
func (d *DB) DeleteExperiment(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM experiments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrExperimentNotFound
	}
	return nil
}

// EnsureExperiments creates any declared experiments that do not exist
// yet. Existing experiments are left untouched so dashboard edits are
// never clobbered by a redeploy.
func (d *DB) EnsureExperiments(ctx context.Context, declared []models.Experiment) error {
	for i := range declared {
		_, err := d.GetExperimentByName(ctx, declared[i].Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrExperimentNotFound) {
			return err
		}
		if err := d.CreateExperiment(ctx, &declared[i]); err != nil {
			return fmt.Errorf("failed to create experiment %s: %w", declared[i].Name, err)
		}
	}
	return nil
}

// SeedDevExperiment inserts a sample experiment for development.
// Skips if it already exists.
func (d *DB) SeedDevExperiment(ctx context.Context) error {
	return d.EnsureExperiments(ctx, []models.Experiment{{
		Name:   "intro-hero",
		Status: models.StatusActive,
		Variants: []models.Variant{
			{Name: "control", Path: "/intro/a", Weight: 70, IsControl: true},
			{Name: "challenger", Path: "/intro/b", Weight: 30},
		},
	}})
}
