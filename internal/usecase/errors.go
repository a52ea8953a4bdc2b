package usecase

import (
	"errors"

	"venue-booking/pkg/utils"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict")
	ErrInvalidOTP         = errors.New("invalid or expired otp code")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// validate runs struct tags and returns a *ValidationError on failure
func validate(req interface{}) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	return nil
}
