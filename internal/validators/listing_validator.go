package validators

import (
	"math"
	"strings"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
)

const dateLayout = "2006-01-02"

type listingValidator struct{}

func NewListingValidator() ListingValidator {
	return &listingValidator{}
}

func (v *listingValidator) ValidateCreate(input *models.ListingInput) error {
	if input == nil {
		return apperrors.NewValidationError("", "listing body is required")
	}
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return apperrors.NewValidationError("title", "is required")
	}
	if input.Location == nil || strings.TrimSpace(*input.Location) == "" {
		return apperrors.NewValidationError("location", "is required")
	}
	if input.Price == nil {
		return apperrors.NewValidationError("price", "is required")
	}
	return v.validateFields(input)
}

func (v *listingValidator) ValidateUpdate(input *models.ListingInput) error {
	if input == nil {
		return apperrors.NewValidationError("", "listing body is required")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return apperrors.NewValidationError("title", "cannot be blank")
	}
	if input.Location != nil && strings.TrimSpace(*input.Location) == "" {
		return apperrors.NewValidationError("location", "cannot be blank")
	}
	return v.validateFields(input)
}

func (v *listingValidator) validateFields(input *models.ListingInput) error {
	if input.Price != nil && (*input.Price < 0 || math.IsNaN(*input.Price) || math.IsInf(*input.Price, 0)) {
		return apperrors.NewValidationError("price", "must be a non-negative number")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return apperrors.NewValidationError("latitude", "latitude and longitude must be provided together")
	}
	if input.Latitude != nil && (*input.Latitude < -90 || *input.Latitude > 90) {
		return apperrors.NewValidationError("latitude", "must be between -90 and 90")
	}
	if input.Longitude != nil && (*input.Longitude < -180 || *input.Longitude > 180) {
		return apperrors.NewValidationError("longitude", "must be between -180 and 180")
	}
	for name, val := range map[string]*int{"bedrooms": input.Bedrooms, "max_occupancy": input.MaxOccupancy, "square_feet": input.SquareFeet} {
		if val != nil && *val < 0 {
			return apperrors.NewValidationError(name, "cannot be negative")
		}
	}
	if input.Bathrooms != nil && *input.Bathrooms < 0 {
		return apperrors.NewValidationError("bathrooms", "cannot be negative")
	}
	if input.CampusDistance != nil && *input.CampusDistance < 0 {
		return apperrors.NewValidationError("campus_distance", "cannot be negative")
	}

	var start, end time.Time
	var err error
	if input.StartDate != nil && *input.StartDate != "" {
		if start, err = time.Parse(dateLayout, *input.StartDate); err != nil {
			return apperrors.NewValidationError("start_date", "must be formatted YYYY-MM-DD")
		}
	}
	if input.EndDate != nil && *input.EndDate != "" {
		if end, err = time.Parse(dateLayout, *input.EndDate); err != nil {
			return apperrors.NewValidationError("end_date", "must be formatted YYYY-MM-DD")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return apperrors.NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}
