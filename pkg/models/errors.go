package models

import (
	"errors"
	"fmt"
)

// Domain services return exactly three error kinds; raw storage errors are
// converted before they cross the service boundary.

// ValidationError marks malformed or out-of-range input.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError marks an id that does not resolve to a live entity.
type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// ConstraintError marks an operation that would violate a restrict-delete
// relationship.
type ConstraintError struct{ Message string }

func (e *ConstraintError) Error() string { return e.Message }

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func Constraintf(format string, args ...any) error {
	return &ConstraintError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConstraint(err error) bool {
	var e *ConstraintError
	return errors.As(err, &e)
}

// FromStore passes domain-kind errors through unchanged and converts any
// other storage failure into a ConstraintError carrying msg.
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsNotFound(err) || IsConstraint(err) {
		return err
	}
	return &ConstraintError{Message: fmt.Sprintf("%s: %v", msg, err)}
}
