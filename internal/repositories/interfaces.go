package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-sublets/internal/models"
	"campus-sublets/pkg/geocoding"
)

// ListingQuery narrows a listing fetch. Zero values mean no constraint;
// PropertyType "Any" is also unconstrained.
type ListingQuery struct {
	OwnerID      string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType string
}

// Signature is a stable cache key fragment for q.
func (q ListingQuery) Signature() string {
	f := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *p)
	}
	pt := strings.ToLower(strings.TrimSpace(q.PropertyType))
	if pt == "" || pt == "any" {
		pt = "-"
	}
	owner := q.OwnerID
	if owner == "" {
		owner = "-"
	}
	return fmt.Sprintf("owner=%s:min=%s:max=%s:type=%s", owner, f(q.MinPrice), f(q.MaxPrice), pt)
}

type ListingRepository interface {
	Find(ctx context.Context, q ListingQuery) ([]models.Listing, error)
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Update(ctx context.Context, id, ownerID string, input *models.ListingInput, coords *geocoding.Coordinates) (*models.Listing, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ListingCache is a read-through cache in front of ListingRepository.
type ListingCache interface {
	GetQuery(ctx context.Context, q ListingQuery) ([]models.Listing, bool, error)
	SetQuery(ctx context.Context, q ListingQuery, listings []models.Listing, expiration time.Duration) error
	GetListing(ctx context.Context, id string) (*models.Listing, bool, error)
	SetListing(ctx context.Context, listing *models.Listing, expiration time.Duration) error
	Invalidate(ctx context.Context, id string) error
}

type GeocodeCache interface {
	Get(ctx context.Context, address string) (*geocoding.GeocodeResponse, bool, error)
	Set(ctx context.Context, address string, resp *geocoding.GeocodeResponse, expiration time.Duration) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id string) (*models.Message, error)
	FindForUser(ctx context.Context, userID string) ([]models.Message, error)
	FindConversation(ctx context.Context, userID, otherUserID string) ([]models.Message, error)
	MarkRead(ctx context.Context, id, receiverID string) (*models.Message, error)
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
