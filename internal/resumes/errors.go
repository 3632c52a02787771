package resumes

import "errors"

var (
	ErrNotFound        = errors.New("resume not found")
	ErrEntryNotFound   = errors.New("resume entry not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrVersionConflict = errors.New("resume was modified concurrently")
)

// ValidationError names the first offending field. It matches ErrInvalidInput.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
