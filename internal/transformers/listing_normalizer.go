package transformers

import (
	"math"
	"strings"

	"campus-sublets/internal/models"
)

// DefaultNoImageURL is shown when a listing has no usable image.
const DefaultNoImageURL = "/placeholder.svg"

type Fallbacks struct {
	Rating      float64
	ReviewCount int
	StartDate   string
	EndDate     string
}

type NormalizerOptions struct {
	NoImageURL string
	Fallbacks  Fallbacks
}

type listingNormalizer struct {
	opts NormalizerOptions
}

func NewListingNormalizer(opts NormalizerOptions) ListingNormalizer {
	if strings.TrimSpace(opts.NoImageURL) == "" {
		opts.NoImageURL = DefaultNoImageURL
	}
	return &listingNormalizer{opts: opts}
}

// Normalize maps records one-to-one, preserving order. It never fails.
func (n *listingNormalizer) Normalize(records []models.Listing) []models.PresentationListing {
	out := make([]models.PresentationListing, len(records))
	for i := range records {
		out[i] = n.NormalizeOne(records[i])
	}
	return out
}

func (n *listingNormalizer) NormalizeOne(r models.Listing) models.PresentationListing {
	p := models.PresentationListing{
		ID:             r.ID.Hex(),
		OwnerID:        r.OwnerID,
		Title:          r.Title,
		Description:    deref(r.Description),
		Price:          r.Price,
		Location:       r.Location,
		Latitude:       copyFloat(r.Latitude),
		Longitude:      copyFloat(r.Longitude),
		Images:         copyStrings(r.Images),
		PropertyType:   deref(r.PropertyType),
		Bedrooms:       copyInt(r.Bedrooms),
		Bathrooms:      copyFloat(r.Bathrooms),
		Amenities:      copyStrings(r.Amenities),
		NearestCampus:  deref(r.NearestCampus),
		CampusDistance: copyFloat(r.CampusDistance),
		ImageURL:       n.opts.NoImageURL,
		Rating:         n.opts.Fallbacks.Rating,
		ReviewCount:    n.opts.Fallbacks.ReviewCount,
		StartDate:      n.opts.Fallbacks.StartDate,
		EndDate:        n.opts.Fallbacks.EndDate,
		CreatedAt:      r.CreatedAt,
	}
	if r.Furnished != nil {
		f := *r.Furnished
		p.Furnished = &f
	}

	if len(r.Images) > 0 && r.Images[0] != "" {
		p.ImageURL = r.Images[0]
	}
	if r.Rating != nil && !math.IsNaN(*r.Rating) && *r.Rating >= 0 {
		p.Rating = *r.Rating
	}
	if r.ReviewCount != nil && *r.ReviewCount >= 0 {
		p.ReviewCount = *r.ReviewCount
	}
	if s := strings.TrimSpace(deref(r.StartDate)); s != "" {
		p.StartDate = s
	}
	if s := strings.TrimSpace(deref(r.EndDate)); s != "" {
		p.EndDate = s
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
