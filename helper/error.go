package helper

import "fmt"

// Error wraps an underlying error with the operation it occurred in.
type Error struct {
	Context string
	Err     error
}

// NewError creates a wrapped error for the given operation context.
func NewError(context string, err error) error {
	return &Error{Context: context, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error in %s: %v", e.Context, e.Err)
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}
