package validators

import (
	"regexp"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^(\+\d{1,3}[- ]?)?\d{10}$`)
)

type userValidator struct{}

func NewUserValidator() UserValidator {
	return &userValidator{}
}

func (v *userValidator) ValidateRegister(req *models.RegisterRequest) error {
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("", "full name, email, and password are required")
	}

	if len(req.FullName) < 2 || len(req.FullName) > 100 {
		return apperrors.NewValidationError("full_name", "must be between 2 and 100 characters")
	}

	if len(req.Password) < 6 || len(req.Password) > 100 {
		return apperrors.NewValidationError("password", "must be between 6 and 100 characters")
	}

	if !emailPattern.MatchString(req.Email) {
		return apperrors.NewValidationError("email", "invalid email format")
	}

	if req.Phone != "" && (len(req.Phone) > 15 || !phonePattern.MatchString(req.Phone)) {
		return apperrors.NewValidationError("phone", "invalid phone format")
	}

	return nil
}

func (v *userValidator) ValidateLogin(email, password string) error {
	if email == "" || password == "" {
		return apperrors.NewValidationError("", "email and password are required")
	}

	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError("email", "invalid email format")
	}

	return nil
}
