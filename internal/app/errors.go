package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	// ErrNotStarted is returned when Recommend is called before Start.
	ErrNotStarted = errors.New("service not started")
)

// ValidationError reports a request field whose value is out of range.
// It is the caller's fault and maps to a 400 at the HTTP layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
