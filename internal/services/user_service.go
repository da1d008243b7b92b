package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"campus-sublets/internal/auth"
	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
	"campus-sublets/internal/validators"
	"campus-sublets/pkg/logger"
	"campus-sublets/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo      repositories.UserRepository
	profiles  repositories.ProfileRepository
	validator validators.UserValidator
	secret    string
	cost      int
}

func NewUserService(repo repositories.UserRepository, profiles repositories.ProfileRepository, validator validators.UserValidator, secret string) *UserService {
	return &UserService{
		repo:      repo,
		profiles:  profiles,
		validator: validator,
		secret:    secret,
		cost:      bcrypt.DefaultCost,
	}
}

// Register creates the account and its profile and returns a login token.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*auth.TokenDetails, error) {
	if err := s.validator.ValidateRegister(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !stderrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	start := time.Now()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	metrics.MongoOperationDuration.WithLabelValues("hash_password", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("hash_password", "").Inc()
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	fullName := user.FullName
	profile := &models.Profile{ID: user.ID.Hex(), Email: user.Email, FullName: &fullName}
	if err := s.profiles.Create(ctx, profile); err != nil {
		logger.GlobalLogger.Errorf("profile create failed: user=%s, error=%v", profile.ID, err)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*auth.TokenDetails, error) {
	if err := s.validator.ValidateLogin(email, password); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if stderrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	start := time.Now()
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	metrics.MongoOperationDuration.WithLabelValues("verify_password", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("verify_password", "").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*auth.TokenDetails, error) {
	start := time.Now()
	tokenDetails, err := auth.GenerateJWT(user.ID.Hex(), user.FullName, user.Email, s.secret)
	metrics.MongoOperationDuration.WithLabelValues("generate_jwt", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("generate_jwt", "").Inc()
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenDetails, nil
}
