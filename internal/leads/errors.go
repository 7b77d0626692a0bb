package leads

import "errors"

var (
	// ErrNotFound is returned when no lead exists for a phone number.
	ErrNotFound = errors.New("lead not found")

	// ErrInvalidCategory is returned for a category outside hot/warm/cold.
	ErrInvalidCategory = errors.New("invalid lead category")
)
