package models

import (
	"errors"
	"fmt"
)

// Базовые категории ошибок. Уровень HTTP сопоставляет их с кодами ответа.
var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)

var (
	ErrInvalidUser     = fmt.Errorf("user does not exist: %w", ErrUnauthorized)
	ErrNotCreator      = fmt.Errorf("user is not the tender creator: %w", ErrUnauthorized)
	ErrAuthorMismatch  = fmt.Errorf("author does not match bid author: %w", ErrUnauthorized)
	ErrNotResponsible  = fmt.Errorf("user is not responsible for organization: %w", ErrForbidden)
	ErrNoTender        = fmt.Errorf("tender: %w", ErrNotFound)
	ErrNoBid           = fmt.Errorf("bid: %w", ErrNotFound)
	ErrNoReviews       = fmt.Errorf("reviews: %w", ErrNotFound)
	ErrVersionConflict = errors.New("concurrent modification")
)

// ValidationError описывает некорректное поле запроса.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
