package models

import "errors"

var (
	// ErrInvalidInput reports an empty image, an empty histogram or mismatched
	// dimensions.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter reports a method parameter outside its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateHistogram reports that no candidate split is numerically
	// defined for the data.
	ErrDegenerateHistogram = errors.New("degenerate histogram")
)
