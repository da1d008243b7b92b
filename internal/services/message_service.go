package services

import (
	"context"
	"strings"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
	"campus-sublets/internal/validators"
	"campus-sublets/pkg/logger"
)

type MessageService struct {
	repo      repositories.MessageRepository
	validator validators.MessageValidator
}

func NewMessageService(repo repositories.MessageRepository, validator validators.MessageValidator) *MessageService {
	return &MessageService{repo: repo, validator: validator}
}

// Send stores a message from senderID.
func (s *MessageService) Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.Message, error) {
	if senderID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if err := s.validator.ValidateSend(senderID, req); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: strings.TrimSpace(req.ReceiverID),
		ListingID:  req.ListingID,
		Content:    strings.TrimSpace(req.Content),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		logger.GlobalLogger.Errorf("message send failed: sender=%s, receiver=%s, error=%v", senderID, message.ReceiverID, err)
		return nil, err
	}
	return message, nil
}

// Inbox returns every message userID sent or received, newest first.
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]models.Message, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.repo.FindForUser(ctx, userID)
}

// Conversation returns the messages between userID and otherUserID, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherUserID string) ([]models.Message, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if strings.TrimSpace(otherUserID) == "" {
		return nil, apperrors.NewValidationError("user_id", "is required")
	}
	return s.repo.FindConversation(ctx, userID, otherUserID)
}

// MarkRead flags a message read; only its receiver may.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) (*models.Message, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.repo.MarkRead(ctx, messageID, userID)
}
