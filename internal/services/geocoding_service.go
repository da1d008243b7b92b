package services

import (
	"context"
	"strings"
	"time"

	"campus-sublets/internal/repositories"
	"campus-sublets/pkg/cache"
	"campus-sublets/pkg/geocoding"
	"campus-sublets/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// GeocodeMonth is the default lifetime of a cached geocode.
const GeocodeMonth = 30 * 24 * time.Hour

// Geocoder is the upstream gateway the service fronts.
type Geocoder interface {
	LookupAddress(ctx context.Context, address string) (*geocoding.GeocodeResponse, error)
	LookupPredictions(ctx context.Context, input string) (*geocoding.AutocompleteResponse, error)
}

type GeocodingService struct {
	client Geocoder
	cache  repositories.GeocodeCache
	ttl    time.Duration
	group  singleflight.Group
}

func NewGeocodingService(client Geocoder, cache repositories.GeocodeCache, ttl time.Duration) *GeocodingService {
	if ttl <= 0 {
		ttl = GeocodeMonth
	}
	return &GeocodingService{client: client, cache: cache, ttl: ttl}
}

// Lookup returns the validated geocode response for address. Successful
// responses are cached and concurrent lookups of the same address share one
// upstream call.
func (s *GeocodingService) Lookup(ctx context.Context, address string) (*geocoding.GeocodeResponse, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return s.client.LookupAddress(ctx, address)
	}

	if s.cache != nil {
		resp, ok, err := s.cache.Get(ctx, address)
		if err != nil {
			logger.GlobalLogger.Warnf("geocode cache read failed: address=%q, error=%v", address, err)
		} else if ok {
			return resp, nil
		}
	}

	key := cache.NormalizeAddress(address)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		// Shared by every waiter, so one caller's cancellation must not fail the rest.
		resp, err := s.client.LookupAddress(context.WithoutCancel(ctx), address)
		if err != nil {
			return nil, err
		}
		if s.cache != nil && resp.Status == geocoding.StatusOK && len(resp.Results) > 0 {
			if err := s.cache.Set(context.WithoutCancel(ctx), address, resp, s.ttl); err != nil {
				logger.GlobalLogger.Warnf("geocode cache write failed: address=%q, error=%v", address, err)
			}
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			logger.GlobalLogger.Errorf("geocode failed: address=%q, error=%v", address, res.Err)
			return nil, res.Err
		}
		return res.Val.(*geocoding.GeocodeResponse), nil
	}
}

// Geocode resolves address to coordinates.
func (s *GeocodingService) Geocode(ctx context.Context, address string) (geocoding.Coordinates, error) {
	resp, err := s.Lookup(ctx, address)
	if err != nil {
		return geocoding.Coordinates{}, err
	}
	return geocoding.FirstCoordinates(resp)
}

// Autocomplete returns the validated prediction response. Predictions are
// not cached.
func (s *GeocodingService) Autocomplete(ctx context.Context, input string) (*geocoding.AutocompleteResponse, error) {
	resp, err := s.client.LookupPredictions(ctx, input)
	if err != nil {
		if f, ok := geocoding.AsFailure(err); !ok || f.Kind != geocoding.InvalidInput {
			logger.GlobalLogger.Errorf("autocomplete failed: input=%q, error=%v", input, err)
		}
		return nil, err
	}
	return resp, nil
}

// Predictions is Autocomplete flattened to display rows.
func (s *GeocodingService) Predictions(ctx context.Context, input string) ([]geocoding.Prediction, error) {
	resp, err := s.Autocomplete(ctx, input)
	if err != nil {
		return nil, err
	}
	return geocoding.Flatten(resp), nil
}
