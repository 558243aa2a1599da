package ask

import (
	"errors"
	"fmt"
)

// ErrNoJokes means the joke collection is empty and no request can be
// served until a fetch populates it.
var ErrNoJokes = errors.New("no jokes available in the collection")

// ValidationError represents user-facing validation issues.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new validation error.
func NewValidationError(format string, args ...interface{}) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
