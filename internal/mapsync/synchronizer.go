package mapsync

import (
	"fmt"
	"math"
	"sync"

	"campus-sublets/internal/models"
	"campus-sublets/pkg/metrics"
)

const DefaultMaxZoom = 16

type pendingSync struct {
	listings   []models.PresentationListing
	onActivate func(id string)
}

// Synchronizer owns the marker set on one Surface.
type Synchronizer struct {
	mu        sync.Mutex
	surface   Surface
	maxZoom   float64
	markers   []Marker
	listeners []Listener
	pending   *pendingSync
	closed    bool
}

type Option func(*Synchronizer)

// WithMaxZoom caps the zoom applied after fitting bounds.
func WithMaxZoom(z float64) Option {
	return func(s *Synchronizer) {
		if z > 0 {
			s.maxZoom = z
		}
	}
}

func New(surface Surface, opts ...Option) *Synchronizer {
	s := &Synchronizer{surface: surface, maxZoom: DefaultMaxZoom}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync replaces every marker with one per coordinate-bearing listing and fits
// the viewport to them. If the surface is not ready the request is queued,
// replacing any earlier queued request, and replayed by SurfaceReady.
// It returns the number of markers placed.
func (s *Synchronizer) Sync(listings []models.PresentationListing, onActivate func(id string)) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	if s.surface == nil || !s.surface.Ready() {
		s.pending = &pendingSync{
			listings:   append([]models.PresentationListing(nil), listings...),
			onActivate: onActivate,
		}
		return 0
	}
	s.pending = nil
	return s.syncLocked(listings, onActivate)
}

// SurfaceReady replays the queued sync, if any.
func (s *Synchronizer) SurfaceReady() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.pending == nil || !s.surface.Ready() {
		return 0
	}
	p := s.pending
	s.pending = nil
	return s.syncLocked(p.listings, p.onActivate)
}

func (s *Synchronizer) syncLocked(listings []models.PresentationListing, onActivate func(id string)) int {
	s.clearLocked()

	var bounds Bounds
	for _, l := range listings {
		if !l.HasCoordinates() {
			continue
		}
		pos := LatLng{Lat: *l.Latitude, Lng: *l.Longitude}
		if math.IsNaN(pos.Lat) || math.IsNaN(pos.Lng) {
			continue
		}
		marker := s.surface.CreateMarker(MarkerOptions{
			ListingID: l.ID,
			Position:  pos,
			Label:     PriceLabel(l.Price),
			Title:     l.Title,
		})
		if marker == nil {
			continue
		}

		summary := Summary{ListingID: l.ID, Title: l.Title, Location: l.Location, Price: l.Price}
		surface := s.surface
		listener := marker.OnClick(func() {
			if d, ok := surface.(SummaryDisplayer); ok {
				d.ShowSummary(marker, summary)
			}
			if onActivate != nil {
				onActivate(summary.ListingID)
			}
		})

		s.markers = append(s.markers, marker)
		if listener != nil {
			s.listeners = append(s.listeners, listener)
		}
		bounds.Extend(pos)
	}

	metrics.MarkersRendered.Observe(float64(len(s.markers)))

	if bounds.IsEmpty() {
		return 0
	}
	s.surface.FitBounds(bounds)
	if s.surface.Zoom() > s.maxZoom {
		s.surface.SetZoom(s.maxZoom)
	}
	return len(s.markers)
}

func (s *Synchronizer) clearLocked() {
	for _, l := range s.listeners {
		l.Remove()
	}
	for _, m := range s.markers {
		m.Remove()
	}
	s.listeners = nil
	s.markers = nil
}

func (s *Synchronizer) MarkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

// Close removes all markers and listeners; later syncs are ignored.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.pending = nil
	s.closed = true
}

// PriceLabel formats a monthly price as a marker label.
func PriceLabel(price float64) string {
	if price == math.Trunc(price) {
		return fmt.Sprintf("$%.0f", price)
	}
	return fmt.Sprintf("$%.2f", price)
}
