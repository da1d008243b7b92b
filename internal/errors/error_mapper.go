package errors

import (
	"context"
	stderrors "errors"
	"net/http"

	"campus-sublets/pkg/geocoding"

	"go.mongodb.org/mongo-driver/mongo"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()
	build := func(userMessage, code string, status int) *AppError {
		return NewAppError(technicalMessage, userMessage, code, status, err)
	}

	var failure *geocoding.Failure
	var ownership *OwnershipError
	var validation *ValidationError

	switch {
	case stderrors.As(err, &failure):
		switch failure.Kind {
		case geocoding.InvalidInput:
			return build(failure.Message, ErrCodeInvalidInput, http.StatusBadRequest)
		case geocoding.NetworkError:
			return build(MsgNetworkError, ErrCodeNetwork, http.StatusServiceUnavailable)
		default:
			return build(MsgUpstreamError, ErrCodeUpstream, http.StatusBadGateway)
		}
	case stderrors.As(err, &ownership):
		return build(ownership.Error(), ErrCodeOwnership, http.StatusForbidden)
	case stderrors.Is(err, ErrOwnershipViolation):
		return build("You can only change your own records", ErrCodeOwnership, http.StatusForbidden)
	case stderrors.As(err, &validation):
		return build(validation.Error(), ErrCodeInvalidInput, http.StatusBadRequest)
	case stderrors.Is(err, ErrListingNotFound):
		return build(MsgListingNotFound, ErrCodeListingNotFound, http.StatusNotFound)
	case stderrors.Is(err, ErrMessageNotFound),
		stderrors.Is(err, ErrProfileNotFound),
		stderrors.Is(err, ErrUserNotFound),
		stderrors.Is(err, ErrSessionNotFound):
		return build(MsgNotFound, ErrCodeNotFound, http.StatusNotFound)
	case stderrors.Is(err, ErrInvalidCredentials):
		return build(MsgInvalidCredentials, ErrCodeUnauthorized, http.StatusUnauthorized)
	case stderrors.Is(err, ErrUnauthorized):
		return build(MsgUnauthorized, ErrCodeUnauthorized, http.StatusUnauthorized)
	case stderrors.Is(err, ErrEmailTaken), mongo.IsDuplicateKeyError(err):
		return build(MsgEmailTaken, ErrCodeConflict, http.StatusConflict)
	case stderrors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return build(MsgServiceUnavailable, ErrCodeServiceUnavailable, http.StatusServiceUnavailable)
	default:
		return build(MsgInternalError, ErrCodeInternal, http.StatusInternalServerError)
	}
}
