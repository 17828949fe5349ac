package application

import (
	"errors"

	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("not authorized")
	ErrNotFound           = repo.ErrNotFound
	ErrDuplicateIdentity  = repo.ErrDuplicateIdentity
)

// ValidationError carries a user-facing message and optional per-field details.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}
