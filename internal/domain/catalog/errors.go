package catalog

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrIntegrity marks a catalog referencing an identifier that does not
	// exist. Fatal to the request that hit it; a loader bug, never retried.
	ErrIntegrity = errors.New("catalog integrity error")

	// ErrLoad marks a failure reading or parsing a catalog file.
	ErrLoad = errors.New("catalog load failed")
)

// WrapIntegrity wraps err as a catalog integrity error with an op prefix.
func WrapIntegrity(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrIntegrity, err)
}

// WrapLoad wraps err as a catalog load error with an op prefix.
func WrapLoad(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrLoad, err)
}
