package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"splitpath/internal/models"
)

// dailySeriesDays is the length of the per-variant daily breakdown:
// today plus the six preceding UTC calendar days.
const dailySeriesDays = 7

// AggregateVariantStats reduces a variant's event rows into counts,
// rates, and a seven day daily series. The scan is bounded to the given
// window so aggregation cost stays independent of total event volume.
// Pure read; safe to call repeatedly.
func (d *DB) AggregateVariantStats(ctx context.Context, variantID uuid.UUID, window time.Duration) (*models.VariantStats, error) {
	since := time.Now().UTC().Add(-window)

	stats := &models.VariantStats{}
	err := d.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'view'),
			COUNT(*) FILTER (WHERE kind = 'conversion'),
			COUNT(*) FILTER (WHERE kind = 'engagement'),
			COUNT(*) FILTER (WHERE kind = 'bounce')
		FROM events
		WHERE variant_id = $1 AND created_at >= $2
	`, variantID, since).Scan(&stats.Views, &stats.Conversions, &stats.Engagements, &stats.Bounces)
	if err != nil {
		return nil, err
	}

	if stats.Views > 0 {
		views := float64(stats.Views)
		stats.ConversionRate = float64(stats.Conversions) / views * 100
		stats.EngagementRate = float64(stats.Engagements) / views * 100
		stats.BounceRate = float64(stats.Bounces) / views * 100
	}

	daily, err := d.dailySeries(ctx, variantID)
	if err != nil {
		return nil, err
	}
	stats.Daily = daily

	return stats, nil
}

// dailySeries counts views and conversions per UTC calendar day for the
// last seven days, oldest first, with zero-filled gaps.
func (d *DB) dailySeries(ctx context.Context, variantID uuid.UUID) ([]models.DailyStat, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(dailySeriesDays - 1))

	rows, err := d.Pool.Query(ctx, `
		SELECT
			to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
			COUNT(*) FILTER (WHERE kind = 'view'),
			COUNT(*) FILTER (WHERE kind = 'conversion')
		FROM events
		WHERE variant_id = $1 AND created_at >= $2
		GROUP BY day
	`, variantID, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]models.DailyStat, dailySeriesDays)
	for rows.Next() {
		var ds models.DailyStat
		if err := rows.Scan(&ds.Date, &ds.Views, &ds.Conversions); err != nil {
			return nil, err
		}
		byDay[ds.Date] = ds
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	series := make([]models.DailyStat, 0, dailySeriesDays)
	for i := 0; i < dailySeriesDays; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		if ds, ok := byDay[date]; ok {
			series = append(series, ds)
		} else {
			series = append(series, models.DailyStat{Date: date})
		}
	}

	return series, nil
}
