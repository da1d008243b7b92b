package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campus-sublets/pkg/geocoding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	calls   atomic.Int32
	release chan struct{}
	resp    *geocoding.GeocodeResponse
	err     error
}

func (g *stubGateway) LookupAddress(ctx context.Context, address string) (*geocoding.GeocodeResponse, error) {
	if address == "" {
		return nil, &geocoding.Failure{Kind: geocoding.InvalidInput, Message: "Address is required"}
	}
	g.calls.Add(1)
	if g.release != nil {
		<-g.release
	}
	return g.resp, g.err
}

func (g *stubGateway) LookupPredictions(ctx context.Context, input string) (*geocoding.AutocompleteResponse, error) {
	return &geocoding.AutocompleteResponse{
		Status: geocoding.StatusOK,
		Predictions: []geocoding.AutocompletePrediction{{
			Description:          input + " Street",
			PlaceID:              "p1",
			StructuredFormatting: geocoding.StructuredFormatting{MainText: input, SecondaryText: "Street"},
		}},
	}, nil
}

type memGeocodeCache struct {
	mu   sync.Mutex
	data map[string]*geocoding.GeocodeResponse
}

func (c *memGeocodeCache) Get(_ context.Context, address string) (*geocoding.GeocodeResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data[address]
	return r, ok, nil
}

func (c *memGeocodeCache) Set(_ context.Context, address string, resp *geocoding.GeocodeResponse, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[address] = resp
	return nil
}

func okResponse(lat, lng float64) *geocoding.GeocodeResponse {
	return &geocoding.GeocodeResponse{
		Status: geocoding.StatusOK,
		Results: []geocoding.GeocodeResult{{
			FormattedAddress: "Somewhere",
			Geometry:         geocoding.Geometry{Location: geocoding.Location{Lat: &lat, Lng: &lng}},
			PlaceID:          "place",
			Types:            []string{},
		}},
	}
}

func TestGeocodingServiceCachesSuccess(t *testing.T) {
	gw := &stubGateway{resp: okResponse(1, 2)}
	c := &memGeocodeCache{data: map[string]*geocoding.GeocodeResponse{}}
	svc := NewGeocodingService(gw, c, 0)

	coords, err := svc.Geocode(context.Background(), "1 Main St")
	require.NoError(t, err)
	assert.Equal(t, geocoding.Coordinates{Lat: 1, Lng: 2}, coords)

	_, err = svc.Geocode(context.Background(), "1 Main St")
	require.NoError(t, err)
	assert.EqualValues(t, 1, gw.calls.Load())
}

func TestGeocodingServiceDoesNotCacheZeroResults(t *testing.T) {
	gw := &stubGateway{resp: &geocoding.GeocodeResponse{Status: geocoding.StatusZeroResults, Results: []geocoding.GeocodeResult{}}}
	c := &memGeocodeCache{data: map[string]*geocoding.GeocodeResponse{}}
	svc := NewGeocodingService(gw, c, time.Hour)

	resp, err := svc.Lookup(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, resp.Results)

	_, err = svc.Geocode(context.Background(), "nowhere")
	f, ok := geocoding.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, geocoding.UpstreamError, f.Kind)
	assert.Empty(t, c.data)
}

func TestGeocodingServiceBlankAddress(t *testing.T) {
	svc := NewGeocodingService(&stubGateway{}, nil, 0)
	_, err := svc.Lookup(context.Background(), "   ")
	f, ok := geocoding.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, geocoding.InvalidInput, f.Kind)
}

func TestGeocodingServiceCollapsesConcurrentLookups(t *testing.T) {
	gw := &stubGateway{resp: okResponse(3, 4), release: make(chan struct{})}
	svc := NewGeocodingService(gw, nil, 0)

	var wg sync.WaitGroup
	results := make([]geocoding.Coordinates, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := svc.Geocode(context.Background(), "5 Elm St")
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}

	assert.Eventually(t, func() bool { return gw.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gw.release)
	wg.Wait()

	assert.EqualValues(t, 1, gw.calls.Load())
	for _, c := range results {
		assert.Equal(t, geocoding.Coordinates{Lat: 3, Lng: 4}, c)
	}
}

func TestGeocodingServicePredictions(t *testing.T) {
	svc := NewGeocodingService(&stubGateway{}, nil, 0)
	preds, err := svc.Predictions(context.Background(), "Telegraph")
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, geocoding.Prediction{Description: "Telegraph Street", PlaceID: "p1", MainText: "Telegraph", SecondaryText: "Street"}, preds[0])
}
