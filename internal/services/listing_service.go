package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/filters"
	"campus-sublets/internal/mapsync"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
	"campus-sublets/internal/transformers"
	"campus-sublets/internal/utils"
	"campus-sublets/internal/validators"
	"campus-sublets/pkg/geocoding"
	"campus-sublets/pkg/logger"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// LocationGeocoder resolves a free-text location to coordinates.
type LocationGeocoder interface {
	Geocode(ctx context.Context, address string) (geocoding.Coordinates, error)
}

type ListingSettings struct {
	CacheTTL        time.Duration
	Bounds          filters.PriceBounds
	DefaultPriceMin float64
	DefaultPriceMax float64
	Viewport        mapsync.ViewportConfig
	MaxZoom         float64
}

// MapView is the map rendering of a filtered listing set.
type MapView struct {
	Filters  filters.State    `json:"filters"`
	Total    int              `json:"total"`
	Mapped   int              `json:"mapped"`
	Viewport mapsync.Snapshot `json:"viewport"`
}

type ListingService struct {
	repo       repositories.ListingRepository
	cache      repositories.ListingCache
	normalizer transformers.ListingNormalizer
	addrTrans  transformers.AddressTransformer
	validator  validators.ListingValidator
	geocoder   LocationGeocoder
	settings   ListingSettings
}

func NewListingService(
	repo repositories.ListingRepository,
	cache repositories.ListingCache,
	normalizer transformers.ListingNormalizer,
	addrTrans transformers.AddressTransformer,
	validator validators.ListingValidator,
	geocoder LocationGeocoder,
	settings ListingSettings,
) *ListingService {
	if settings.Bounds == (filters.PriceBounds{}) {
		settings.Bounds = filters.DefaultBounds
	}
	if settings.DefaultPriceMin == 0 && settings.DefaultPriceMax == 0 {
		settings.DefaultPriceMin = filters.DefaultPriceMin
		settings.DefaultPriceMax = filters.DefaultPriceMax
	}
	if settings.MaxZoom <= 0 {
		settings.MaxZoom = mapsync.DefaultMaxZoom
	}
	return &ListingService{
		repo:       repo,
		cache:      cache,
		normalizer: normalizer,
		addrTrans:  addrTrans,
		validator:  validator,
		geocoder:   geocoder,
		settings:   settings,
	}
}

// DefaultState is the filter state a new visitor starts with.
func (s *ListingService) DefaultState() filters.State {
	return filters.NewState(s.settings.Bounds, s.settings.DefaultPriceMin, s.settings.DefaultPriceMax)
}

// NewViewport builds a headless map surface with the configured geometry.
func (s *ListingService) NewViewport() *mapsync.Viewport {
	return mapsync.NewViewport(s.settings.Viewport)
}

func (s *ListingService) MaxZoom() float64 {
	return s.settings.MaxZoom
}

// Fetch reads listing records through the query cache, newest first.
func (s *ListingService) Fetch(ctx context.Context, q repositories.ListingQuery) ([]models.Listing, error) {
	if s.cache != nil {
		listings, ok, err := s.cache.GetQuery(ctx, q)
		if err != nil {
			logger.GlobalLogger.Warnf("listing cache read failed: query=%s, error=%v", q.Signature(), err)
		} else if ok {
			return listings, nil
		}
	}

	listings, err := s.repo.Find(ctx, q)
	if err != nil {
		logger.GlobalLogger.Errorf("listing query failed: query=%s, error=%v", q.Signature(), err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetQuery(ctx, q, listings, s.settings.CacheTTL); err != nil {
			logger.GlobalLogger.Warnf("listing cache write failed: query=%s, error=%v", q.Signature(), err)
		}
	}
	return listings, nil
}

// Records fetches and normalizes listings.
func (s *ListingService) Records(ctx context.Context, q repositories.ListingQuery) ([]models.PresentationListing, error) {
	listings, err := s.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Normalize(listings), nil
}

// Visible returns the listings that pass st, in st's sort order.
func (s *ListingService) Visible(ctx context.Context, st filters.State) ([]models.PresentationListing, error) {
	records, err := s.Records(ctx, QueryForState(st))
	if err != nil {
		return nil, err
	}
	return filters.Apply(records, st), nil
}

// QueryForState pushes the price and type predicates of st down to the store.
func QueryForState(st filters.State) repositories.ListingQuery {
	priceMin, priceMax := st.PriceMin, st.PriceMax
	q := repositories.ListingQuery{MinPrice: &priceMin, MaxPrice: &priceMax}
	if st.PropertyType != filters.PropertyTypeAny {
		q.PropertyType = st.PropertyType
	}
	return q
}

// List returns one page of the listings visible under st.
func (s *ListingService) List(ctx context.Context, st filters.State, offset, limit int, baseURL string, params url.Values) (*models.PaginatedListingsResponse, error) {
	visible, err := s.Visible(ctx, st)
	if err != nil {
		return nil, err
	}
	return Paginate(visible, offset, limit, baseURL, params), nil
}

// Paginate slices listings and links the neighboring pages.
func Paginate(listings []models.PresentationListing, offset, limit int, baseURL string, params url.Values) *models.PaginatedListingsResponse {
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	total := len(listings)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	meta := models.PaginationMeta{
		Total:  int64(total),
		Offset: offset,
		Limit:  limit,
	}
	if offset+limit < total {
		nextURL := utils.BuildPaginationURL(baseURL, offset+limit, limit, params)
		meta.Next = &nextURL
	}
	if offset > 0 {
		prevOffset := offset - limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prevURL := utils.BuildPaginationURL(baseURL, prevOffset, limit, params)
		meta.Prev = &prevURL
	}

	page := make([]models.PresentationListing, end-start)
	copy(page, listings[start:end])
	return &models.PaginatedListingsResponse{Data: page, Meta: meta}
}

// ListMine returns the listings ownerID owns, newest first.
func (s *ListingService) ListMine(ctx context.Context, ownerID string) ([]models.PresentationListing, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.Records(ctx, repositories.ListingQuery{OwnerID: ownerID})
}

func (s *ListingService) Get(ctx context.Context, id string) (*models.PresentationListing, error) {
	if s.cache != nil {
		listing, ok, err := s.cache.GetListing(ctx, id)
		if err != nil {
			logger.GlobalLogger.Warnf("listing cache read failed: id=%s, error=%v", id, err)
		} else if ok {
			p := s.normalizer.NormalizeOne(*listing)
			return &p, nil
		}
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheListing(ctx, listing)
	p := s.normalizer.NormalizeOne(*listing)
	return &p, nil
}

// Create stores a listing owned by ownerID. A location without coordinates
// is geocoded; a failed geocode leaves the coordinates unset.
func (s *ListingService) Create(ctx context.Context, ownerID string, input *models.ListingInput) (*models.PresentationListing, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if err := s.validator.ValidateCreate(input); err != nil {
		return nil, err
	}

	listing := newListing(ownerID, input)
	listing.Location = s.addrTrans.CleanLocation(listing.Location)
	if !listing.HasCoordinates() {
		if coords := s.locate(ctx, listing.Location); coords != nil {
			listing.Latitude = &coords.Lat
			listing.Longitude = &coords.Lng
		}
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		logger.GlobalLogger.Errorf("listing create failed: owner=%s, error=%v", ownerID, err)
		return nil, err
	}
	s.invalidate(ctx, "")
	s.cacheListing(ctx, listing)

	p := s.normalizer.NormalizeOne(*listing)
	return &p, nil
}

// Update applies input to a listing ownerID owns.
func (s *ListingService) Update(ctx context.Context, ownerID, id string, input *models.ListingInput) (*models.PresentationListing, error) {
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if err := s.validator.ValidateUpdate(input); err != nil {
		return nil, err
	}

	var coords *geocoding.Coordinates
	if input.Location != nil {
		cleaned := s.addrTrans.CleanLocation(*input.Location)
		input.Location = &cleaned
		if input.Latitude == nil && input.Longitude == nil {
			coords = s.locate(ctx, cleaned)
		}
	}

	listing, err := s.repo.Update(ctx, id, ownerID, input, coords)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.cacheListing(ctx, listing)

	p := s.normalizer.NormalizeOne(*listing)
	return &p, nil
}

// Delete removes a listing ownerID owns.
func (s *ListingService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return apperrors.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Map renders the listings visible under st onto a fresh viewport.
func (s *ListingService) Map(ctx context.Context, st filters.State) (*MapView, error) {
	visible, err := s.Visible(ctx, st)
	if err != nil {
		return nil, err
	}

	viewport := s.NewViewport()
	viewport.MarkReady()
	syncer := mapsync.New(viewport, mapsync.WithMaxZoom(s.settings.MaxZoom))
	defer syncer.Close()

	mapped := syncer.Sync(visible, nil)
	return &MapView{
		Filters:  st,
		Total:    len(visible),
		Mapped:   mapped,
		Viewport: viewport.Snapshot(),
	}, nil
}

func (s *ListingService) locate(ctx context.Context, location string) *geocoding.Coordinates {
	if s.geocoder == nil || strings.TrimSpace(location) == "" {
		return nil
	}
	coords, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		logger.GlobalLogger.Warnf("geocode skipped: location=%q, error=%v", location, err)
		return nil
	}
	return &coords
}

func (s *ListingService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.GlobalLogger.Warnf("listing cache invalidation failed: id=%s, error=%v", id, err)
	}
}

func (s *ListingService) cacheListing(ctx context.Context, listing *models.Listing) {
	if s.cache == nil || listing == nil {
		return
	}
	if err := s.cache.SetListing(ctx, listing, s.settings.CacheTTL); err != nil {
		logger.GlobalLogger.Warnf("listing cache write failed: id=%s, error=%v", listing.ID.Hex(), err)
	}
}

func newListing(ownerID string, in *models.ListingInput) *models.Listing {
	return &models.Listing{
		OwnerID:        ownerID,
		Title:          strings.TrimSpace(*in.Title),
		Description:    in.Description,
		Price:          *in.Price,
		Location:       strings.TrimSpace(*in.Location),
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Images:         in.Images,
		PropertyType:   in.PropertyType,
		Bedrooms:       in.Bedrooms,
		Bathrooms:      in.Bathrooms,
		MaxOccupancy:   in.MaxOccupancy,
		SquareFeet:     in.SquareFeet,
		Furnished:      in.Furnished,
		Amenities:      in.Amenities,
		HouseRules:     in.HouseRules,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		NearestCampus:  in.NearestCampus,
		CampusDistance: in.CampusDistance,
	}
}
