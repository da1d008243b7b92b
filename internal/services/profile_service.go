package services

import (
	"context"
	"net/url"
	"strings"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
)

type ProfileService struct {
	repo repositories.ProfileRepository
}

func NewProfileService(repo repositories.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.ErrProfileNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Update changes the profile id; callers may only update their own.
func (s *ProfileService) Update(ctx context.Context, userID, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if id != userID {
		return nil, apperrors.NewOwnershipError("update", "profile")
	}
	if req == nil {
		return nil, apperrors.NewValidationError("", "profile body is required")
	}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if len(name) > 100 {
			return nil, apperrors.NewValidationError("full_name", "must be at most 100 characters")
		}
		req.FullName = &name
	}
	if req.ProfileImageURL != nil && *req.ProfileImageURL != "" {
		if u, err := url.Parse(*req.ProfileImageURL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, apperrors.NewValidationError("profile_image_url", "must be an absolute URL")
		}
	}
	return s.repo.Update(ctx, id, req)
}
