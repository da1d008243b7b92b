package handlers

import (
	"context"
	"net/url"

	"campus-sublets/internal/auth"
	"campus-sublets/internal/filters"
	"campus-sublets/internal/models"
	"campus-sublets/internal/services"
	"campus-sublets/pkg/geocoding"
)

type ListingService interface {
	DefaultState() filters.State
	List(ctx context.Context, st filters.State, offset, limit int, baseURL string, params url.Values) (*models.PaginatedListingsResponse, error)
	Map(ctx context.Context, st filters.State) (*services.MapView, error)
	ListMine(ctx context.Context, ownerID string) ([]models.PresentationListing, error)
	Get(ctx context.Context, id string) (*models.PresentationListing, error)
	Create(ctx context.Context, ownerID string, input *models.ListingInput) (*models.PresentationListing, error)
	Update(ctx context.Context, ownerID, id string, input *models.ListingInput) (*models.PresentationListing, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type GeocodingService interface {
	Lookup(ctx context.Context, address string) (*geocoding.GeocodeResponse, error)
	Autocomplete(ctx context.Context, input string) (*geocoding.AutocompleteResponse, error)
}

type MessageService interface {
	Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.Message, error)
	Inbox(ctx context.Context, userID string) ([]models.Message, error)
	Conversation(ctx context.Context, userID, otherUserID string) ([]models.Message, error)
	MarkRead(ctx context.Context, userID, messageID string) (*models.Message, error)
}

type ProfileService interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, userID, id string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*auth.TokenDetails, error)
	Login(ctx context.Context, email, password string) (*auth.TokenDetails, error)
}
