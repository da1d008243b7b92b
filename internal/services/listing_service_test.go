package services

import (
	"context"
	"net/url"
	"testing"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/filters"
	"campus-sublets/internal/mapsync"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
	"campus-sublets/internal/transformers"
	"campus-sublets/internal/validators"
	"campus-sublets/pkg/geocoding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingFixture struct {
	repo     *fakeListingRepo
	cache    *fakeListingCache
	geocoder *fakeGeocoder
	svc      *ListingService
}

func newListingFixture() *listingFixture {
	f := &listingFixture{
		repo:     newFakeListingRepo(),
		cache:    newFakeListingCache(),
		geocoder: &fakeGeocoder{coords: geocoding.Coordinates{Lat: 37.87, Lng: -122.27}},
	}
	f.svc = NewListingService(
		f.repo,
		f.cache,
		transformers.NewListingNormalizer(transformers.NormalizerOptions{}),
		transformers.NewAddressTransformer(),
		validators.NewListingValidator(),
		f.geocoder,
		ListingSettings{Viewport: mapsync.ViewportConfig{Width: 800, Height: 600}},
	)
	return f
}

func (f *listingFixture) seed(t *testing.T, owner, title string, price float64, propertyType string, coords *geocoding.Coordinates) *models.PresentationListing {
	t.Helper()
	in := &models.ListingInput{
		Title:        ptr(title),
		Price:        ptr(price),
		Location:     ptr(title + ", CA"),
		PropertyType: ptr(propertyType),
	}
	if coords != nil {
		in.Latitude, in.Longitude = ptr(coords.Lat), ptr(coords.Lng)
	}
	geocoder := f.svc.geocoder
	f.svc.geocoder = nil
	defer func() { f.svc.geocoder = geocoder }()
	p, err := f.svc.Create(context.Background(), owner, in)
	require.NoError(t, err)
	return p
}

func titles(listings []models.PresentationListing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Title
	}
	return out
}

func TestListingServiceListFiltersSortsAndPaginates(t *testing.T) {
	f := newListingFixture()
	f.seed(t, "u1", "Cheap", 400, "Studio", nil)
	f.seed(t, "u1", "Mid", 900, "Studio", nil)
	f.seed(t, "u2", "Upper", 1200, "Apartment", nil)
	f.seed(t, "u2", "Lux", 2500, "Studio", nil)

	st := f.svc.DefaultState()
	resp, err := f.svc.List(context.Background(), st, 0, 10, "/api/listings", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Upper", "Mid"}, titles(resp.Data))
	assert.EqualValues(t, 2, resp.Meta.Total)

	st.SetSortOption(string(filters.SortPriceLow))
	resp, err = f.svc.List(context.Background(), st, 0, 1, "/api/listings", url.Values{"sort": {"price_low"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mid"}, titles(resp.Data))
	require.NotNil(t, resp.Meta.Next)
	assert.Contains(t, *resp.Meta.Next, "offset=1")
	assert.Contains(t, *resp.Meta.Next, "sort=price_low")
	assert.Nil(t, resp.Meta.Prev)

	st.SetPropertyType("studio")
	resp, err = f.svc.List(context.Background(), st, 0, 10, "/api/listings", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mid"}, titles(resp.Data))
}

func TestPaginateOutOfRangeOffset(t *testing.T) {
	listings := make([]models.PresentationListing, 3)
	resp := Paginate(listings, 10, 0, "/api/listings", nil)
	assert.Empty(t, resp.Data)
	assert.Equal(t, DefaultPageLimit, resp.Meta.Limit)
	assert.Nil(t, resp.Meta.Next)
	require.NotNil(t, resp.Meta.Prev)
}

func TestListingServiceFetchReadsThroughCache(t *testing.T) {
	f := newListingFixture()
	f.seed(t, "u1", "Mid", 900, "Studio", nil)

	q := repositories.ListingQuery{}
	first, err := f.svc.Fetch(context.Background(), q)
	require.NoError(t, err)
	second, err := f.svc.Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.repo.finds)
}

func TestListingServiceCreateGeocodesMissingCoordinates(t *testing.T) {
	f := newListingFixture()
	got, err := f.svc.Create(context.Background(), "u1", &models.ListingInput{
		Title:    ptr("Room near campus"),
		Price:    ptr(1100.0),
		Location: ptr("  2400 Durant Ave ,  Berkeley  "),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2400 Durant Ave, Berkeley"}, f.geocoder.calls)
	require.True(t, got.HasCoordinates())
	assert.Equal(t, 37.87, *got.Latitude)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, transformers.DefaultNoImageURL, got.ImageURL)
	assert.Contains(t, f.cache.invalidated, "")
}

func TestListingServiceCreateDegradesWhenGeocodeFails(t *testing.T) {
	f := newListingFixture()
	f.geocoder.err = &geocoding.Failure{Kind: geocoding.NetworkError, Message: "unreachable"}

	got, err := f.svc.Create(context.Background(), "u1", &models.ListingInput{
		Title:    ptr("Room"),
		Price:    ptr(800.0),
		Location: ptr("Ann Arbor"),
	})
	require.NoError(t, err)
	assert.False(t, got.HasCoordinates())
}

func TestListingServiceCreateKeepsGivenCoordinates(t *testing.T) {
	f := newListingFixture()
	got, err := f.svc.Create(context.Background(), "u1", &models.ListingInput{
		Title:     ptr("Room"),
		Price:     ptr(800.0),
		Location:  ptr("Ann Arbor"),
		Latitude:  ptr(42.28),
		Longitude: ptr(-83.74),
	})
	require.NoError(t, err)
	assert.Empty(t, f.geocoder.calls)
	assert.Equal(t, 42.28, *got.Latitude)
}

func TestListingServiceCreateRejects(t *testing.T) {
	f := newListingFixture()

	_, err := f.svc.Create(context.Background(), "", &models.ListingInput{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.svc.Create(context.Background(), "u1", &models.ListingInput{Price: ptr(1.0), Location: ptr("x")})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestListingServiceOwnership(t *testing.T) {
	f := newListingFixture()
	created := f.seed(t, "owner", "Mine", 900, "Studio", nil)

	_, err := f.svc.Update(context.Background(), "intruder", created.ID, &models.ListingInput{Title: ptr("Stolen")})
	require.ErrorIs(t, err, apperrors.ErrOwnershipViolation)
	assert.EqualError(t, err, "You can only update your own listings")

	err = f.svc.Delete(context.Background(), "intruder", created.ID)
	require.ErrorIs(t, err, apperrors.ErrOwnershipViolation)
	assert.EqualError(t, err, "You can only delete your own listings")

	updated, err := f.svc.Update(context.Background(), "owner", created.ID, &models.ListingInput{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Contains(t, f.cache.invalidated, created.ID)

	require.NoError(t, f.svc.Delete(context.Background(), "owner", created.ID))
	_, err = f.svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
}

func TestListingServiceUpdateGeocodesNewLocation(t *testing.T) {
	f := newListingFixture()
	created := f.seed(t, "owner", "Mine", 900, "Studio", nil)

	updated, err := f.svc.Update(context.Background(), "owner", created.ID, &models.ListingInput{Location: ptr("Berkeley,CA")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Berkeley, CA"}, f.geocoder.calls)
	assert.Equal(t, "Berkeley, CA", updated.Location)
	assert.True(t, updated.HasCoordinates())
}

func TestListingServiceListMine(t *testing.T) {
	f := newListingFixture()
	f.seed(t, "a", "First", 900, "Studio", nil)
	f.seed(t, "b", "Other", 900, "Studio", nil)
	f.seed(t, "a", "Second", 900, "Studio", nil)

	mine, err := f.svc.ListMine(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First"}, titles(mine))
}

func TestListingServiceMap(t *testing.T) {
	f := newListingFixture()
	f.seed(t, "u1", "Berkeley", 900, "Studio", &geocoding.Coordinates{Lat: 37.8716, Lng: -122.2727})
	f.seed(t, "u1", "Oakland", 1000, "Studio", &geocoding.Coordinates{Lat: 37.8044, Lng: -122.2712})
	f.seed(t, "u1", "Nowhere", 1100, "Studio", nil)

	view, err := f.svc.Map(context.Background(), f.svc.DefaultState())
	require.NoError(t, err)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 2, view.Mapped)
	assert.Len(t, view.Viewport.Markers, 2)
	assert.LessOrEqual(t, view.Viewport.Zoom, float64(mapsync.DefaultMaxZoom))
	assert.InDelta(t, 37.838, view.Viewport.Center.Lat, 0.01)
}
