package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"splitpath/internal/models"
)

// variantColumns is the standard column list for variant queries.
const variantColumns = `id, experiment_id, name, path, weight, is_control, position,
	health_status, health_checked_at, health_error, created_at, updated_at`

// scanVariant scans a row into a Variant struct.
func scanVariant(row pgx.Row) (*models.Variant, error) {
	var v models.Variant
	err := row.Scan(
		&v.ID,
		&v.ExperimentID,
		&v.Name,
		&v.Path,
		&v.Weight,
		&v.IsControl,
		&v.Position,
		&v.HealthStatus,
		&v.HealthCheckedAt,
		&v.HealthError,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// scanVariants scans multiple rows into a slice of Variants.
func scanVariants(rows pgx.Rows) ([]models.Variant, error) {
	defer rows.Close()

	var variants []models.Variant
	for rows.Next() {
		var v models.Variant
		if err := rows.Scan(
			&v.ID,
			&v.ExperimentID,
			&v.Name,
			&v.Path,
			&v.Weight,
			&v.IsControl,
			&v.Position,
			&v.HealthStatus,
			&v.HealthCheckedAt,
			&v.HealthError,
			&v.CreatedAt,
			&v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	return variants, rows.Err()
}

// GetVariantByID retrieves a variant by its ID.
func (d *DB) GetVariantByID(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1`
	return scanVariant(d.Pool.QueryRow(ctx, query, id))
}

// GetVariantsByExperiment retrieves an experiment's variants in
// position order.
func (d *DB) GetVariantsByExperiment(ctx context.Context, experimentID uuid.UUID) ([]models.Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM variants
		WHERE experiment_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, experimentID)
	if err != nil {
		return nil, err
	}
	return scanVariants(rows)
}

// GetActiveVariantByPath retrieves the variant matching a path within an
// active experiment. Only active experiments participate in path
// resolution so paused tests stop accruing path-targeted events.
func (d *DB) GetActiveVariantByPath(ctx context.Context, path string) (*models.Variant, error) {
	query := `
		SELECT v.` + variantColumnsQualified("v") + `
		FROM variants v
		JOIN experiments e ON e.id = v.experiment_id
		WHERE v.path = $1 AND e.status = $2
		ORDER BY v.created_at ASC
		LIMIT 1
	`
	return scanVariant(d.Pool.QueryRow(ctx, query, path, models.StatusActive))
}

// UpdateVariantHealthStatus updates path checker results for a variant.
func (d *DB) UpdateVariantHealthStatus(ctx context.Context, variantID uuid.UUID, status string, errorMsg *string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE variants
		SET health_status = $1, health_checked_at = NOW(), health_error = $2
		WHERE id = $3
	`, status, errorMsg, variantID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrVariantNotFound
	}
	return nil
}

// GetVariantsNeedingHealthCheck retrieves variants of active experiments
// whose last check is older than maxAge.
func (d *DB) GetVariantsNeedingHealthCheck(ctx context.Context, maxAge time.Duration, limit int) ([]models.Variant, error) {
	cutoff := time.Now().Add(-maxAge)
	query := `
		SELECT v.` + variantColumnsQualified("v") + `
		FROM variants v
		JOIN experiments e ON e.id = v.experiment_id
		WHERE e.status = $1 AND (v.health_checked_at IS NULL OR v.health_checked_at < $2)
		ORDER BY v.health_checked_at NULLS FIRST
		LIMIT $3
	`
	rows, err := d.Pool.Query(ctx, query, models.StatusActive, cutoff, limit)
	if err != nil {
		return nil, err
	}
	return scanVariants(rows)
}

// variantColumnsQualified prefixes each variant column with a table alias.
func variantColumnsQualified(alias string) string {
	return `id, ` + alias + `.experiment_id, ` + alias + `.name, ` + alias + `.path, ` +
		alias + `.weight, ` + alias + `.is_control, ` + alias + `.position, ` +
		alias + `.health_status, ` + alias + `.health_checked_at, ` + alias + `.health_error, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
