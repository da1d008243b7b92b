package repositories

import (
	"context"
	"time"

	"campus-sublets/internal/models"
	"campus-sublets/pkg/cache"
	"campus-sublets/pkg/metrics"
)

type listingCache struct{}

func NewListingCache() ListingCache {
	return &listingCache{}
}

func (c *listingCache) GetQuery(ctx context.Context, q ListingQuery) ([]models.Listing, bool, error) {
	var listings []models.Listing
	err := cache.Get(ctx, cache.ListingQueryKey(q.Signature()), &listings)
	if cache.IsMiss(err) {
		metrics.CacheMissesTotal.WithLabelValues("listing_query").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	metrics.CacheHitsTotal.WithLabelValues("listing_query").Inc()
	return listings, true, nil
}

// SetQuery caches a query result and tracks its key so any write can drop it.
func (c *listingCache) SetQuery(ctx context.Context, q ListingQuery, listings []models.Listing, expiration time.Duration) error {
	if listings == nil {
		listings = []models.Listing{}
	}
	return cache.SetTracked(ctx, cache.ListingQueryKey(q.Signature()), cache.ListingKeysSetKey, listings, expiration)
}

func (c *listingCache) GetListing(ctx context.Context, id string) (*models.Listing, bool, error) {
	var listing models.Listing
	err := cache.Get(ctx, cache.ListingKey(id), &listing)
	if cache.IsMiss(err) {
		metrics.CacheMissesTotal.WithLabelValues("listing").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	metrics.CacheHitsTotal.WithLabelValues("listing").Inc()
	return &listing, true, nil
}

func (c *listingCache) SetListing(ctx context.Context, listing *models.Listing, expiration time.Duration) error {
	return cache.Set(ctx, cache.ListingKey(listing.ID.Hex()), listing, expiration)
}

// Invalidate drops the listing and every cached query, since any query may include it.
func (c *listingCache) Invalidate(ctx context.Context, id string) error {
	if id != "" {
		if err := cache.Delete(ctx, cache.ListingKey(id)); err != nil {
			return err
		}
	}
	_, err := cache.InvalidateSet(ctx, cache.ListingKeysSetKey)
	return err
}
