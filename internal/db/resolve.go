package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"splitpath/internal/assign"
	"splitpath/internal/models"
)

// ResolveVariant resolves a visitor to a variant of the experiment.
//
// A visitor with a prior event in the experiment keeps the variant of
// their earliest event ("first event wins"); otherwise a weighted random
// pick over the experiment's variants decides. The resolution itself is
// a pure read: the caller records the resulting view event, which is
// what makes the assignment stick for future calls.
//
// Returns ErrExperimentNotFound when the experiment does not exist or is
// not active, and ErrNoVariants when it has no variants.
func (d *DB) ResolveVariant(ctx context.Context, experimentID uuid.UUID, visitorID string) (*models.Assignment, error) {
	exp, err := d.GetExperimentByID(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	if !exp.IsActive() {
		return nil, ErrExperimentNotFound
	}
	if len(exp.Variants) == 0 {
		return nil, ErrNoVariants
	}

	if visitorID != "" {
		variantID, err := d.GetFirstVariantForVisitor(ctx, experimentID, visitorID)
		if err == nil {
			// The variant must still belong to the experiment;
			// a deleted variant falls through to a fresh pick.
			for i := range exp.Variants {
				if exp.Variants[i].ID == variantID {
					return &models.Assignment{
						Variant:            &exp.Variants[i],
						IsReturningVisitor: true,
					}, nil
				}
			}
		} else if !errors.Is(err, ErrVariantNotFound) {
			return nil, fmt.Errorf("failed to look up prior assignment: %w", err)
		}
	}

	variant := assign.Pick(exp.Variants)
	if variant == nil {
		return nil, ErrNoVariants
	}
	return &models.Assignment{Variant: variant, IsReturningVisitor: false}, nil
}
