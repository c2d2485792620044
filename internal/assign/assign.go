// Package assign implements weighted random variant selection.
package assign

import (
	"math/rand/v2"

	"splitpath/internal/models"
)

// Pick selects a variant by weighted random draw: sum the weights W,
// draw r uniformly from [0, W), and walk the variants in position order
// accumulating weight until the cumulative total exceeds r.
//
// When every weight is zero, or a floating point edge exhausts the walk
// without a match, the first variant wins deterministically. Returns nil
// only for an empty slice.
func Pick(variants []models.Variant) *models.Variant {
	if len(variants) == 0 {
		return nil
	}
	return pickWeighted(variants, rand.Float64())
}

// pickWeighted performs the walk for a uniform draw u in [0, 1).
func pickWeighted(variants []models.Variant, u float64) *models.Variant {
	total := 0
	for i := range variants {
		if variants[i].Weight > 0 {
			total += variants[i].Weight
		}
	}
	if total == 0 {
		return &variants[0]
	}

	r := u * float64(total)
	cumulative := 0.0
	for i := range variants {
		if variants[i].Weight <= 0 {
			continue
		}
		cumulative += float64(variants[i].Weight)
		if r < cumulative {
			return &variants[i]
		}
	}

	// Floating point edge: fall back deterministically.
	return &variants[0]
}
