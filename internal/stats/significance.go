// Package stats provides significance analysis for experiment results.
package stats

import (
	"math"

	"github.com/google/uuid"

	"splitpath/internal/models"
)

// Result represents statistical analysis of an experiment.
type Result struct {
	Variants        []VariantResult `json:"variants"`
	Confident       bool            `json:"confident"`        // >= 95% confidence
	ConfidenceLevel float64         `json:"confidence_level"` // 0-1
	LeadingVariant  uuid.UUID       `json:"leading_variant"`
}

// VariantResult contains analysis output for a single variant.
type VariantResult struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	IsControl   bool      `json:"is_control"`
	Views       int64     `json:"views"`
	Conversions int64     `json:"conversions"`
	Rate        float64   `json:"rate"`
	CILower     float64   `json:"ci_lower"`
	CIUpper     float64   `json:"ci_upper"`
}

// SignificanceTest performs a two-proportion z-test.
// Returns confidence level (0-1) that variant A beats variant B.
func SignificanceTest(aConv, aViews, bConv, bViews int64) float64 {
	if aViews == 0 || bViews == 0 {
		return 0.5 // Need data from both variants
	}

	pA := float64(aConv) / float64(aViews)
	pB := float64(bConv) / float64(bViews)

	// Pooled proportion under null hypothesis (pA = pB)
	pooledP := float64(aConv+bConv) / float64(aViews+bViews)

	se := math.Sqrt(pooledP * (1 - pooledP) * (1/float64(aViews) + 1/float64(bViews)))
	if se == 0 {
		if pA > pB {
			return 1.0
		} else if pA < pB {
			return 0.0
		}
		return 0.5
	}

	z := (pA - pB) / se

	// P(Z < z) gives the confidence that A > B
	return normalCDF(z)
}

// normalCDF approximates the cumulative distribution function of the
// standard normal distribution (Abramowitz and Stegun 7.1.26).
func normalCDF(x float64) float64 {
	a1 := 0.254829592
	a2 := -0.284496736
	a3 := 1.421413741
	a4 := -1.453152027
	a5 := 1.061405429
	p := 0.3275911

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x) / math.Sqrt(2)

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return 0.5 * (1.0 + sign*y)
}

// Analyze compares the experiment's variants. The confidence level is
// computed between the leading variant and the control (or the best
// challenger when the control itself leads). Variants without a control
// flag fall back to treating the first variant as control.
func Analyze(variants []models.VariantWithStats) *Result {
	if len(variants) == 0 {
		return &Result{}
	}

	results := make([]VariantResult, len(variants))
	controlIdx := 0
	leadingIdx := 0
	maxRate := -1.0

	for i := range variants {
		v := &variants[i]
		rate := 0.0
		if v.Stats.Views > 0 {
			rate = float64(v.Stats.Conversions) / float64(v.Stats.Views)
		}
		ciLower, ciUpper := WilsonInterval(v.Stats.Conversions, v.Stats.Views, 0.95)

		results[i] = VariantResult{
			ID:          v.ID,
			Name:        v.Name,
			IsControl:   v.IsControl,
			Views:       v.Stats.Views,
			Conversions: v.Stats.Conversions,
			Rate:        rate,
			CILower:     ciLower,
			CIUpper:     ciUpper,
		}

		if v.IsControl {
			controlIdx = i
		}
		if rate > maxRate {
			maxRate = rate
			leadingIdx = i
		}
	}

	var confidenceLevel float64
	if len(results) >= 2 {
		challengerIdx := leadingIdx
		if leadingIdx == controlIdx {
			// Control leads: compare it against the best challenger.
			bestRate := -1.0
			for i := range results {
				if i == controlIdx {
					continue
				}
				if results[i].Rate > bestRate {
					bestRate = results[i].Rate
					challengerIdx = i
				}
			}
			confidenceLevel = SignificanceTest(
				results[controlIdx].Conversions, results[controlIdx].Views,
				results[challengerIdx].Conversions, results[challengerIdx].Views,
			)
		} else {
			confidenceLevel = SignificanceTest(
				results[leadingIdx].Conversions, results[leadingIdx].Views,
				results[controlIdx].Conversions, results[controlIdx].Views,
			)
		}
	}

	return &Result{
		Variants:        results,
		Confident:       confidenceLevel >= 0.95,
		ConfidenceLevel: confidenceLevel,
		LeadingVariant:  results[leadingIdx].ID,
	}
}
