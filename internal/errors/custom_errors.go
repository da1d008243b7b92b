package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.OriginalError == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeListingNotFound    = "LISTING_NOT_FOUND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeOwnership          = "OWNERSHIP_VIOLATION"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

var (
	ErrListingNotFound    = stderrors.New("listing not found")
	ErrMessageNotFound    = stderrors.New("message not found")
	ErrProfileNotFound    = stderrors.New("profile not found")
	ErrUserNotFound       = stderrors.New("user not found")
	ErrSessionNotFound    = stderrors.New("browse session not found")
	ErrOwnershipViolation = stderrors.New("ownership violation")
	ErrUnauthorized       = stderrors.New("unauthorized")
	ErrInvalidCredentials = stderrors.New("invalid credentials")
	ErrEmailTaken         = stderrors.New("email already registered")
)

// OwnershipError reports a mutation attempted by someone other than the owner.
type OwnershipError struct {
	Action   string
	Resource string
}

func NewOwnershipError(action, resource string) *OwnershipError {
	return &OwnershipError{Action: action, Resource: resource}
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("You can only %s your own %s", e.Action, e.Resource)
}

func (e *OwnershipError) Is(target error) bool {
	return target == ErrOwnershipViolation
}

// ValidationError reports rejected client input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
