package domain

import (
	"errors"
	"fmt"
)

// The four failure kinds every resource service surfaces. Repositories and
// services wrap these with fmt.Errorf so callers classify with errors.Is;
// no raw store error escapes the service layer untranslated.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrForbidden  = errors.New("access forbidden")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Validationf builds a ValidationFailure with an actionable message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Storagef wraps an underlying store error as a StorageFailure. The cause is
// preserved in the message for server-side logging; the HTTP layer renders a
// generic message instead.
func Storagef(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}
