// Package mapsync keeps a map surface's markers and viewport consistent
// with the current listing set.
package mapsync

import "math"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a lat/lng rectangle; the zero value is empty.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
	set       bool
}

// Extend grows b to include p.
func (b *Bounds) Extend(p LatLng) {
	if !b.set {
		b.SouthWest, b.NorthEast, b.set = p, p, true
		return
	}
	b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
	b.SouthWest.Lng = math.Min(b.SouthWest.Lng, p.Lng)
	b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
	b.NorthEast.Lng = math.Max(b.NorthEast.Lng, p.Lng)
}

func (b Bounds) IsEmpty() bool {
	return !b.set
}

func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

type MarkerOptions struct {
	ListingID string
	Position  LatLng
	Label     string
	Title     string
}

// Listener is a registered click handler.
type Listener interface {
	Remove()
}

type Marker interface {
	Position() LatLng
	OnClick(fn func()) Listener
	Remove()
}

// Surface is the map widget markers are drawn on.
type Surface interface {
	Ready() bool
	CreateMarker(opts MarkerOptions) Marker
	FitBounds(b Bounds)
	Zoom() float64
	SetZoom(z float64)
}

// Summary is the short description shown when a marker is activated.
type Summary struct {
	ListingID string  `json:"listing_id"`
	Title     string  `json:"title"`
	Location  string  `json:"location"`
	Price     float64 `json:"price"`
}

// SummaryDisplayer is implemented by surfaces that can show a marker summary.
type SummaryDisplayer interface {
	ShowSummary(m Marker, s Summary)
}
