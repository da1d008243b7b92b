// Package filters holds the browse filter/sort state and applies it to
// presentation listings.
package filters

import (
	"math"
	"strings"
)

type SortOption string

const (
	SortRecommended SortOption = "recommended"
	SortPriceLow    SortOption = "price_low"
	SortPriceHigh   SortOption = "price_high"
	SortRating      SortOption = "rating"
	SortDateNewest  SortOption = "date_newest"
)

var SortOptions = []SortOption{SortRecommended, SortPriceLow, SortPriceHigh, SortRating, SortDateNewest}

type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewMap  ViewMode = "map"
)

// PropertyTypeAny matches every listing.
const PropertyTypeAny = "Any"

var PropertyTypes = []string{PropertyTypeAny, "Apartment", "Studio", "Private Room", "Shared Room", "House"}

type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

var DefaultBounds = PriceBounds{Min: 300, Max: 3000}

const (
	DefaultPriceMin = 500
	DefaultPriceMax = 2000
)

// State is the user's current filter and sort selection.
// Invariants: PriceMin <= PriceMax, both within bounds, enum fields are members.
type State struct {
	PriceMin     float64    `json:"price_min"`
	PriceMax     float64    `json:"price_max"`
	PropertyType string     `json:"property_type"`
	Sort         SortOption `json:"sort"`
	View         ViewMode   `json:"view"`

	bounds PriceBounds
}

func DefaultState() State {
	return NewState(DefaultBounds, DefaultPriceMin, DefaultPriceMax)
}

// NewState builds a state with the given bounds and initial price range.
// Inverted bounds are swapped.
func NewState(bounds PriceBounds, priceMin, priceMax float64) State {
	if bounds.Min > bounds.Max {
		bounds.Min, bounds.Max = bounds.Max, bounds.Min
	}
	s := State{
		PriceMin:     bounds.Min,
		PriceMax:     bounds.Max,
		PropertyType: PropertyTypeAny,
		Sort:         SortRecommended,
		View:         ViewList,
		bounds:       bounds,
	}
	s.SetPriceRange(priceMin, priceMax)
	return s
}

func (s State) Bounds() PriceBounds {
	return s.bounds
}

// SetPriceRange swaps an inverted range and clamps both ends to the bounds.
// NaN ends keep their previous value.
func (s *State) SetPriceRange(priceMin, priceMax float64) {
	if math.IsNaN(priceMin) {
		priceMin = s.PriceMin
	}
	if math.IsNaN(priceMax) {
		priceMax = s.PriceMax
	}
	if priceMin > priceMax {
		priceMin, priceMax = priceMax, priceMin
	}
	s.PriceMin = clamp(priceMin, s.bounds)
	s.PriceMax = clamp(priceMax, s.bounds)
}

func clamp(v float64, b PriceBounds) float64 {
	return math.Min(math.Max(v, b.Min), b.Max)
}

// SetPropertyType accepts a known type case-insensitively, storing its canonical spelling.
func (s *State) SetPropertyType(t string) bool {
	for _, known := range PropertyTypes {
		if strings.EqualFold(strings.TrimSpace(t), known) {
			s.PropertyType = known
			return true
		}
	}
	return false
}

func (s *State) SetSortOption(o string) bool {
	for _, known := range SortOptions {
		if SortOption(o) == known {
			s.Sort = known
			return true
		}
	}
	return false
}

func (s *State) SetViewMode(v string) bool {
	switch ViewMode(v) {
	case ViewList, ViewMap:
		s.View = ViewMode(v)
		return true
	}
	return false
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	PriceMin     *float64 `json:"price_min"`
	PriceMax     *float64 `json:"price_max"`
	PropertyType *string  `json:"property_type"`
	Sort         *string  `json:"sort"`
	View         *string  `json:"view"`
}

// ApplyPatch applies p and returns the names of fields whose values were
// rejected and ignored.
func (s *State) ApplyPatch(p Patch) []string {
	var ignored []string
	if p.PriceMin != nil || p.PriceMax != nil {
		lo, hi := s.PriceMin, s.PriceMax
		if p.PriceMin != nil {
			lo = *p.PriceMin
		}
		if p.PriceMax != nil {
			hi = *p.PriceMax
		}
		s.SetPriceRange(lo, hi)
	}
	if p.PropertyType != nil && !s.SetPropertyType(*p.PropertyType) {
		ignored = append(ignored, "property_type")
	}
	if p.Sort != nil && !s.SetSortOption(*p.Sort) {
		ignored = append(ignored, "sort")
	}
	if p.View != nil && !s.SetViewMode(*p.View) {
		ignored = append(ignored, "view")
	}
	return ignored
}

// FiltersListing reports whether the state narrows the listing set at all.
func (s State) FiltersListing() bool {
	return s.PropertyType != PropertyTypeAny || s.PriceMin > s.bounds.Min || s.PriceMax < s.bounds.Max
}
