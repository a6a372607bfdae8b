package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeSync             = "SYNC_ERROR"
	ErrCodeSerialization    = "SERIALIZATION_ERROR"
	ErrCodeIdentityMismatch = "IDENTITY_MISMATCH"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "SYNC_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewUnauthorizedError creates a new UNAUTHORIZED error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// NewSyncError creates a SYNC_ERROR for a failed canonical-store write.
// The staged local state is retained, so the failure is recoverable.
func NewSyncError(deckID string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeSync,
		Message: fmt.Sprintf("failed to save progress for deck %s; changes are kept locally", deckID),
		Status:  500,
		Err:     err,
	}
}

// NewSerializationError creates a SERIALIZATION_ERROR for overlay encode/decode failures.
func NewSerializationError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeSerialization,
		Message: fmt.Sprintf("overlay %s failed", op),
		Status:  500,
		Err:     err,
	}
}

// NewIdentityMismatchError signals a due-queue card missing from the canonical set.
// Non-fatal: the review session skips the card and continues.
func NewIdentityMismatchError(cardID string) *AppError {
	return &AppError{
		Code:    ErrCodeIdentityMismatch,
		Message: fmt.Sprintf("card %s is no longer in the deck; skipped", cardID),
		Status:  200,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
