package service

import (
	"errors"

	"github.com/lexpage/landing-service/internal/repository"
	"github.com/lexpage/landing-service/internal/validation"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// validationFailed turns field-level failures into a 400 carrying details.fields.
func validationFailed(message string, err error) error {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return apperrors.NewValidationError(message, map[string]any{"fields": verr.Fields})
	}
	return apperrors.NewInternalError(err)
}

// storeError maps repository sentinels, leaving anything else as an internal error.
func storeError(resource string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}
