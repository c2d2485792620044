package db

import "errors"

// Domain-level database error sentinels.
var (
	// Experiment errors
	ErrExperimentNotFound = errors.New("experiment not found")
	ErrDuplicateName      = errors.New("experiment name already exists")

	// Variant errors
	ErrVariantNotFound  = errors.New("variant not found")
	ErrDuplicateVariant = errors.New("variant name already exists in this experiment")
	ErrNoVariants       = errors.New("experiment has no variants")

	// Event errors
	ErrInvalidEventKind = errors.New("invalid event kind")
	ErrMissingTarget    = errors.New("either variant id or path is required")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
