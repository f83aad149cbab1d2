package repository

import "errors"

// Sentinel kinds for curated store errors.
var (
	ErrInvalidEntry = errors.New("invalid curated entry")
	ErrLoad         = errors.New("curated database load failed")
)
