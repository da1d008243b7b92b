package browse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/filters"
	"campus-sublets/internal/mapsync"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
	"campus-sublets/pkg/geocoding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr[T any](v T) *T { return &v }

func listing(id string, price float64, propertyType string, lat, lng *float64) models.PresentationListing {
	return models.PresentationListing{
		ID:           id,
		Title:        "Listing " + id,
		Location:     "Somewhere",
		Price:        price,
		PropertyType: propertyType,
		Latitude:     lat,
		Longitude:    lng,
	}
}

func sampleListings() []models.PresentationListing {
	return []models.PresentationListing{
		listing("1", 900, "Studio", ptr(37.87), ptr(-122.27)),
		listing("2", 1500, "Apartment", ptr(37.80), ptr(-122.27)),
		listing("3", 1200, "Studio", nil, nil),
		listing("4", 2800, "House", ptr(37.75), ptr(-122.40)),
	}
}

// gatedSource returns queued results in order; each call waits on its gate
// when one is set.
type gatedSource struct {
	mu      sync.Mutex
	results [][]models.PresentationListing
	gates   []chan struct{}
	err     error
	calls   int
}

func (s *gatedSource) Records(ctx context.Context, _ repositories.ListingQuery) ([]models.PresentationListing, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	var gate chan struct{}
	if i < len(s.gates) {
		gate = s.gates[i]
	}
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if s.err != nil {
		return nil, s.err
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	return s.results[len(s.results)-1], nil
}

type recordingSuggester struct {
	mu     sync.Mutex
	inputs []string
	gates  map[string]chan struct{}
	err    error
}

func (s *recordingSuggester) Predictions(_ context.Context, input string) ([]geocoding.Prediction, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, input)
	gate := s.gates[input]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return []geocoding.Prediction{{Description: input + ", CA", PlaceID: "id-" + input, MainText: input}}, nil
}

func (s *recordingSuggester) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.inputs...)
}

func testConfig() Config {
	return Config{
		InitialState:       filters.DefaultState(),
		Viewport:           mapsync.ViewportConfig{Width: 800, Height: 600},
		AutocompleteQuiet:  30 * time.Millisecond,
		AutocompleteMinLen: 3,
	}
}

func ids(listings []models.PresentationListing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestSessionFiltersAndMapSurfaceReadiness(t *testing.T) {
	src := &gatedSource{results: [][]models.PresentationListing{sampleListings()}}
	s := NewSession("s1", src, &recordingSuggester{}, testConfig())
	defer s.Close()

	require.NoError(t, s.Refresh(context.Background()))
	view := s.View()
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 4, view.Fetched)
	assert.Equal(t, []string{"1", "2", "3"}, ids(view.Listings))
	assert.False(t, view.Map.Ready)
	assert.Empty(t, view.Map.Markers)

	view = s.Update(filters.Patch{View: ptr("map")})
	assert.True(t, view.Map.Ready)
	assert.Len(t, view.Map.Markers, 2)

	view = s.Update(filters.Patch{PropertyType: ptr("studio"), Sort: ptr("bogus")})
	assert.Equal(t, []string{"1", "3"}, ids(view.Listings))
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 4, view.Fetched)
	assert.Equal(t, []string{"sort"}, view.Ignored)
	require.Len(t, view.Map.Markers, 1)
	assert.Equal(t, "$900", view.Map.Markers[0].Label)
	assert.LessOrEqual(t, view.Map.Zoom, float64(mapsync.DefaultMaxZoom))
}

func TestSessionPriceRangeIsSwappedAndClamped(t *testing.T) {
	src := &gatedSource{results: [][]models.PresentationListing{sampleListings()}}
	s := NewSession("s1", src, &recordingSuggester{}, testConfig())
	defer s.Close()
	require.NoError(t, s.Refresh(context.Background()))

	view := s.Update(filters.Patch{PriceMin: ptr(5000.0), PriceMax: ptr(1000.0)})
	assert.Equal(t, 1000.0, view.Filters.PriceMin)
	assert.Equal(t, 3000.0, view.Filters.PriceMax)
	assert.Equal(t, []string{"2", "3", "4"}, ids(view.Listings))
}

func TestSessionActivateAndClear(t *testing.T) {
	cfg := testConfig()
	cfg.InitialState.SetViewMode("map")
	src := &gatedSource{results: [][]models.PresentationListing{sampleListings()}}
	s := NewSession("s1", src, &recordingSuggester{}, cfg)
	defer s.Close()
	require.NoError(t, s.Refresh(context.Background()))

	assert.False(t, s.Activate("3"))
	require.True(t, s.Activate("2"))

	view := s.View()
	assert.Equal(t, "2", view.ActiveListingID)
	require.NotNil(t, view.Map.Summary)
	assert.Equal(t, 1500.0, view.Map.Summary.Price)

	view = s.Update(filters.Patch{PropertyType: ptr("Studio")})
	assert.Empty(t, view.ActiveListingID)
}

func TestSessionIgnoresLateClickOnFilteredListing(t *testing.T) {
	cfg := testConfig()
	cfg.InitialState.SetViewMode("map")
	src := &gatedSource{results: [][]models.PresentationListing{sampleListings()}}
	s := NewSession("s1", src, &recordingSuggester{}, cfg)
	defer s.Close()
	require.NoError(t, s.Refresh(context.Background()))

	// Listing 2 is an Apartment; its click handler fires after the resync.
	s.Update(filters.Patch{PropertyType: ptr("Studio")})
	s.activate("2")
	assert.Empty(t, s.View().ActiveListingID)

	s.activate("1")
	assert.Equal(t, "1", s.View().ActiveListingID)
}

func TestSessionDiscardsStaleFetch(t *testing.T) {
	slow := make(chan struct{})
	src := &gatedSource{
		results: [][]models.PresentationListing{
			{listing("old", 900, "Studio", nil, nil)},
			{listing("new", 900, "Studio", nil, nil)},
		},
		gates: []chan struct{}{slow, nil},
	}
	s := NewSession("s1", src, &recordingSuggester{}, testConfig())
	defer s.Close()

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Refresh(context.Background()))
	close(slow)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, ids(s.View().Listings))
}

func TestSessionRefreshError(t *testing.T) {
	src := &gatedSource{err: errors.New("store down")}
	s := NewSession("s1", src, &recordingSuggester{}, testConfig())
	defer s.Close()
	assert.EqualError(t, s.Refresh(context.Background()), "store down")
}

func TestSessionSuggestShortInput(t *testing.T) {
	sug := &recordingSuggester{}
	s := NewSession("s1", &gatedSource{results: [][]models.PresentationListing{{}}}, sug, testConfig())
	defer s.Close()

	got, err := s.Suggest(context.Background(), " Be ")
	require.NoError(t, err)
	assert.False(t, got.Dispatched)
	assert.Empty(t, got.Predictions)
	assert.Empty(t, sug.seen())
}

func TestSessionSuggestDebouncesBurst(t *testing.T) {
	sug := &recordingSuggester{}
	s := NewSession("s1", &gatedSource{results: [][]models.PresentationListing{{}}}, sug, testConfig())
	defer s.Close()

	var wg sync.WaitGroup
	early := make([]Suggestions, 2)
	for i, input := range []string{"Ber", "Berk"} {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			got, err := s.Suggest(context.Background(), input)
			assert.NoError(t, err)
			early[i] = got
		}(i, input)
		time.Sleep(5 * time.Millisecond)
	}

	last, err := s.Suggest(context.Background(), "Berkeley")
	wg.Wait()
	require.NoError(t, err)

	assert.True(t, last.Dispatched)
	assert.Equal(t, []string{"Berkeley"}, sug.seen())
	require.Len(t, last.Predictions, 1)
	assert.Equal(t, "Berkeley, CA", last.Predictions[0].Description)
	for _, e := range early {
		assert.False(t, e.Dispatched)
	}
}

func TestSessionSuggestDiscardsStaleResponse(t *testing.T) {
	slow := make(chan struct{})
	sug := &recordingSuggester{gates: map[string]chan struct{}{"Berk": slow}}
	s := NewSession("s1", &gatedSource{results: [][]models.PresentationListing{{}}}, sug, testConfig())
	defer s.Close()

	done := make(chan Suggestions, 1)
	go func() {
		got, err := s.Suggest(context.Background(), "Berk")
		assert.NoError(t, err)
		done <- got
	}()
	require.Eventually(t, func() bool { return len(sug.seen()) == 1 }, time.Second, time.Millisecond)

	fresh, err := s.Suggest(context.Background(), "Boston")
	require.NoError(t, err)
	assert.True(t, fresh.Dispatched)

	close(slow)
	stale := <-done
	assert.True(t, stale.Dispatched)
	require.Len(t, stale.Predictions, 1)
	assert.Equal(t, "Boston, CA", stale.Predictions[0].Description)
}

func TestSessionSuggestError(t *testing.T) {
	sug := &recordingSuggester{err: &geocoding.Failure{Kind: geocoding.UpstreamError, Message: "REQUEST_DENIED"}}
	s := NewSession("s1", &gatedSource{results: [][]models.PresentationListing{{}}}, sug, testConfig())
	defer s.Close()

	_, err := s.Suggest(context.Background(), "Berkeley")
	f, ok := geocoding.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, geocoding.UpstreamError, f.Kind)
}

func TestRegistryLifecycle(t *testing.T) {
	src := &gatedSource{results: [][]models.PresentationListing{sampleListings()}}
	r := NewRegistry(src, &recordingSuggester{}, testConfig(), time.Minute)
	defer r.Close()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	s, err := r.Create(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	clock = clock.Add(30 * time.Second)
	assert.Equal(t, 0, r.EvictIdle())

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle())
	assert.Equal(t, 0, r.Len())

	other, err := r.Create(context.Background())
	require.NoError(t, err)
	require.NoError(t, r.Delete(other.ID))
	assert.ErrorIs(t, r.Delete(other.ID), apperrors.ErrSessionNotFound)
}

func TestRegistryCreateFailsWhenFetchFails(t *testing.T) {
	r := NewRegistry(&gatedSource{err: errors.New("store down")}, &recordingSuggester{}, testConfig(), time.Minute)
	_, err := r.Create(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryCleanupStopsWithContext(t *testing.T) {
	r := NewRegistry(&gatedSource{results: [][]models.PresentationListing{{}}}, &recordingSuggester{}, testConfig(), time.Millisecond)
	_, err := r.Create(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		r.Cleanup(ctx, 2*time.Millisecond)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-stopped
}
