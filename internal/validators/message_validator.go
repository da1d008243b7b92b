package validators

import (
	"strings"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
)

const maxMessageLength = 5000

type messageValidator struct{}

func NewMessageValidator() MessageValidator {
	return &messageValidator{}
}

func (v *messageValidator) ValidateSend(senderID string, req *models.SendMessageRequest) error {
	if req == nil {
		return apperrors.NewValidationError("", "message body is required")
	}
	if strings.TrimSpace(req.ReceiverID) == "" {
		return apperrors.NewValidationError("receiver_id", "is required")
	}
	if req.ReceiverID == senderID {
		return apperrors.NewValidationError("receiver_id", "cannot message yourself")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return apperrors.NewValidationError("content", "is required")
	}
	if len(content) > maxMessageLength {
		return apperrors.NewValidationError("content", "is too long")
	}
	return nil
}
