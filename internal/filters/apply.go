package filters

import (
	"sort"
	"strings"

	"campus-sublets/internal/models"
)

// Apply returns the listings matching s, ordered by s.Sort. The input is not modified.
func Apply(listings []models.PresentationListing, s State) []models.PresentationListing {
	out := make([]models.PresentationListing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, s) {
			out = append(out, l)
		}
	}
	Sort(out, s.Sort)
	return out
}

// Matches applies the price and property type predicates.
func Matches(l models.PresentationListing, s State) bool {
	if l.Price < s.PriceMin || l.Price > s.PriceMax {
		return false
	}
	if s.PropertyType == "" || s.PropertyType == PropertyTypeAny {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(l.PropertyType), s.PropertyType)
}

// Sort orders listings in place; equal keys keep their relative order.
func Sort(listings []models.PresentationListing, opt SortOption) {
	var less func(a, b models.PresentationListing) bool
	switch opt {
	case SortPriceLow:
		less = func(a, b models.PresentationListing) bool { return a.Price < b.Price }
	case SortPriceHigh:
		less = func(a, b models.PresentationListing) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b models.PresentationListing) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.ReviewCount > b.ReviewCount
		}
	case SortDateNewest:
		less = func(a, b models.PresentationListing) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(listings, func(i, j int) bool { return less(listings[i], listings[j]) })
}
