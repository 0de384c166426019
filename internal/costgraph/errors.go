package costgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrShape reports malformed inputs: wrong column lengths, missing
	// columns, or indices that cannot address the data.
	ErrShape = errors.New("costgraph: invalid input shape")

	// ErrColumnOrder is returned when a sparse column is started out of order.
	ErrColumnOrder = errors.New("costgraph: columns must be written left to right")

	// ErrCapacity is returned when the sparse buffer cannot grow any further.
	ErrCapacity = errors.New("costgraph: sparse capacity exhausted")

	// ErrFinalized is returned when a finalized buffer is written to.
	ErrFinalized = errors.New("costgraph: sparse buffer already finalized")

	// ErrMissingTracks is returned when a builder needs a track graph but has none.
	ErrMissingTracks = errors.New("costgraph: track graph required")
)

// InputError names the offending input of a rejected build.
type InputError struct {
	Input  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("costgraph: input %s: %s", e.Input, e.Reason)
}

// Unwrap lets callers match any InputError with errors.Is(err, ErrShape).
func (e *InputError) Unwrap() error { return ErrShape }

func inputErrorf(input, format string, args ...interface{}) error {
	return &InputError{Input: input, Reason: fmt.Sprintf(format, args...)}
}
