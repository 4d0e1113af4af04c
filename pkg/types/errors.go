package types

import "errors"

// Domain errors for configuration and pattern validation
var (
	// Configuration errors
	ErrInvalidWeight    = errors.New("key weight must be in (0, 1]")
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")
	ErrInvalidDistance  = errors.New("distance must be >= 0")
	ErrEmptyKeyName     = errors.New("key name cannot be empty")

	// Pattern errors
	ErrEmptyPattern = errors.New("pattern cannot be empty")

	// Collection errors
	ErrNilCollection         = errors.New("collection cannot be nil")
	ErrUnsupportedCollection = errors.New("collection must be a slice or array")

	// Result validation errors
	ErrInvalidIndex      = errors.New("result index must be >= 0")
	ErrInvalidScore      = errors.New("score must be between 0 and 1")
	ErrInvalidArrayIndex = errors.New("array index must be >= -1")
	ErrInvalidIndexRange = errors.New("match index range must be ordered and non-negative")
)
