package repositories

import (
	"context"
	"time"

	"campus-sublets/pkg/cache"
	"campus-sublets/pkg/geocoding"
	"campus-sublets/pkg/metrics"
)

type geocodeCache struct{}

func NewGeocodeCache() GeocodeCache {
	return &geocodeCache{}
}

func (c *geocodeCache) Get(ctx context.Context, address string) (*geocoding.GeocodeResponse, bool, error) {
	var resp geocoding.GeocodeResponse
	err := cache.Get(ctx, cache.GeocodeKey(address), &resp)
	if cache.IsMiss(err) {
		metrics.CacheMissesTotal.WithLabelValues("geocode").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	metrics.CacheHitsTotal.WithLabelValues("geocode").Inc()
	return &resp, true, nil
}

func (c *geocodeCache) Set(ctx context.Context, address string, resp *geocoding.GeocodeResponse, expiration time.Duration) error {
	return cache.Set(ctx, cache.GeocodeKey(address), resp, expiration)
}
