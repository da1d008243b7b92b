package validators

import (
	"campus-sublets/internal/models"
)

type ListingValidator interface {
	ValidateCreate(input *models.ListingInput) error
	ValidateUpdate(input *models.ListingInput) error
}

type MessageValidator interface {
	ValidateSend(senderID string, req *models.SendMessageRequest) error
}

type UserValidator interface {
	ValidateRegister(req *models.RegisterRequest) error
	ValidateLogin(email, password string) error
}
