package models

// VariantStats holds the derived counters and rates for one variant.
// Rates are percentages; a variant with zero views has all rates at 0.
type VariantStats struct {
	Views          int64   `json:"views"`
	Conversions    int64   `json:"conversions"`
	Engagements    int64   `json:"engagements"`
	Bounces        int64   `json:"bounces"`
	ConversionRate float64 `json:"conversion_rate"`
	EngagementRate float64 `json:"engagement_rate"`
	BounceRate     float64 `json:"bounce_rate"`

	// Daily holds today and the six preceding UTC calendar days,
	// oldest first, always exactly seven entries.
	Daily []DailyStat `json:"daily"`
}

// DailyStat is one calendar day of view/conversion counts.
type DailyStat struct {
	Date        string `json:"date"` // ISO date, e.g. "2026-08-31"
	Views       int64  `json:"views"`
	Conversions int64  `json:"conversions"`
}

// Assignment is the result of resolving a visitor to a variant.
type Assignment struct {
	Variant            *Variant `json:"variant"`
	IsReturningVisitor bool     `json:"is_returning_visitor"`
}

// VariantWithStats is a variant annotated with computed stats for the
// experiment detail response.
type VariantWithStats struct {
	Variant
	Stats VariantStats `json:"stats"`
}

// ExperimentSummary is a list-view row with aggregate totals.
type ExperimentSummary struct {
	Experiment
	VariantCount int   `json:"variant_count"`
	TotalViews   int64 `json:"total_views"`
}
