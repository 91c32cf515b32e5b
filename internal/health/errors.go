package health

import (
	"errors"
	"strings"
)

var (
	// ErrConfiguration marks a prediction that cannot run: the model is missing or
	// unreadable, or the profile cannot be mapped onto the model's feature columns.
	ErrConfiguration = errors.New("configuration error")

	// ErrPrecondition marks a request that needs a completed prediction in the session.
	ErrPrecondition = errors.New("precondition failed")
)

// ValidationError lists the intake rules a submission violated.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}
