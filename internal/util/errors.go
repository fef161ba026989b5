package util

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid participant or password")
	ErrMealNotFound       = errors.New("meal not found")
	ErrTemplateNotFound   = errors.New("meal template not found")
	ErrAchievementMissing = errors.New("achievement not found")
)

// Unavailable wraps a storage failure so callers can match ErrStoreUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}

// Invalid builds an ErrInvalidInput with a human readable reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
