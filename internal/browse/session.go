// Package browse keeps per-visitor browse state on the server: filters, the
// current listing set, a headless map and address suggestions.
package browse

import (
	"context"
	"strings"
	"sync"
	"time"

	"campus-sublets/internal/debounce"
	"campus-sublets/internal/filters"
	"campus-sublets/internal/latest"
	"campus-sublets/internal/mapsync"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
	"campus-sublets/pkg/geocoding"
	"campus-sublets/pkg/logger"
	"campus-sublets/pkg/metrics"
)

const (
	DefaultAutocompleteQuiet  = 300 * time.Millisecond
	DefaultAutocompleteMinLen = 3
)

type ListingSource interface {
	Records(ctx context.Context, q repositories.ListingQuery) ([]models.PresentationListing, error)
}

type Suggester interface {
	Predictions(ctx context.Context, input string) ([]geocoding.Prediction, error)
}

type Config struct {
	InitialState       filters.State
	Viewport           mapsync.ViewportConfig
	MaxZoom            float64
	AutocompleteQuiet  time.Duration
	AutocompleteMinLen int
}

// View is what a client renders for a session.
type View struct {
	ID              string                       `json:"id"`
	Filters         filters.State                `json:"filters"`
	Bounds          filters.PriceBounds          `json:"bounds"`
	Total           int                          `json:"total"`
	Fetched         int                          `json:"fetched"`
	Listings        []models.PresentationListing `json:"listings"`
	Map             mapsync.Snapshot             `json:"map"`
	ActiveListingID string                       `json:"active_listing_id,omitempty"`
	Ignored         []string                     `json:"ignored,omitempty"`
}

// Suggestions is the outcome of one autocomplete keystroke.
type Suggestions struct {
	Input       string                 `json:"input"`
	Dispatched  bool                   `json:"dispatched"`
	Predictions []geocoding.Prediction `json:"predictions"`
}

type Session struct {
	ID string

	source    ListingSource
	suggester Suggester
	minLen    int

	fetches   latest.Guard
	suggests  latest.Guard
	debouncer *debounce.Debouncer
	viewport  *mapsync.Viewport
	syncer    *mapsync.Synchronizer

	mu          sync.Mutex
	state       filters.State
	records     []models.PresentationListing
	visible     []models.PresentationListing
	activeID    string
	suggestions []geocoding.Prediction
	lastSeen    time.Time
	closed      bool
}

func NewSession(id string, source ListingSource, suggester Suggester, cfg Config) *Session {
	if cfg.AutocompleteQuiet <= 0 {
		cfg.AutocompleteQuiet = DefaultAutocompleteQuiet
	}
	if cfg.AutocompleteMinLen <= 0 {
		cfg.AutocompleteMinLen = DefaultAutocompleteMinLen
	}
	if cfg.InitialState.Bounds() == (filters.PriceBounds{}) {
		cfg.InitialState = filters.DefaultState()
	}

	viewport := mapsync.NewViewport(cfg.Viewport)
	s := &Session{
		ID:          id,
		source:      source,
		suggester:   suggester,
		minLen:      cfg.AutocompleteMinLen,
		debouncer:   debounce.New(cfg.AutocompleteQuiet),
		viewport:    viewport,
		syncer:      mapsync.New(viewport, mapsync.WithMaxZoom(cfg.MaxZoom)),
		state:       cfg.InitialState,
		suggestions: []geocoding.Prediction{},
		lastSeen:    time.Now(),
	}
	if s.state.View == filters.ViewMap {
		viewport.MarkReady()
	}
	return s
}

// Refresh fetches the listing set. A fetch overtaken by a newer one is
// discarded, including its error.
func (s *Session) Refresh(ctx context.Context) error {
	ticket := s.fetches.Begin()
	records, err := s.source.Records(ctx, repositories.ListingQuery{})
	if err != nil {
		if !s.fetches.IsCurrent(ticket) {
			metrics.StaleResponsesTotal.WithLabelValues("listings").Inc()
			return nil
		}
		logger.GlobalLogger.Errorf("browse refresh failed: session=%s, error=%v", s.ID, err)
		return err
	}

	applied := s.fetches.Apply(ticket, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.records = records
		s.recomputeLocked()
	})
	if !applied {
		metrics.StaleResponsesTotal.WithLabelValues("listings").Inc()
	}
	return nil
}

// Update applies a filter patch and recomputes the visible set and map.
func (s *Session) Update(p filters.Patch) View {
	s.mu.Lock()
	ignored := s.state.ApplyPatch(p)
	if s.state.View == filters.ViewMap && !s.viewport.Ready() {
		s.viewport.MarkReady()
		s.syncer.SurfaceReady()
	}
	s.recomputeLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	view.Ignored = ignored
	return view
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Suggest debounces autocomplete for input. Input shorter than the minimum
// length clears the suggestions without calling upstream.
func (s *Session) Suggest(ctx context.Context, input string) (Suggestions, error) {
	input = strings.TrimSpace(input)
	if len([]rune(input)) < s.minLen {
		s.suggests.Invalidate()
		s.debouncer.Cancel()
		s.mu.Lock()
		s.suggestions = []geocoding.Prediction{}
		s.mu.Unlock()
		metrics.AutocompleteCallsTotal.WithLabelValues("too_short").Inc()
		return Suggestions{Input: input, Predictions: []geocoding.Prediction{}}, nil
	}

	ticket := s.suggests.Begin()
	var stale bool
	dispatched, err := s.debouncer.Do(ctx, func(ctx context.Context) error {
		preds, err := s.suggester.Predictions(ctx, input)
		if err != nil {
			stale = !s.suggests.IsCurrent(ticket)
			return err
		}
		if !s.suggests.Apply(ticket, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.suggestions = preds
		}) {
			stale = true
		}
		return nil
	})

	switch {
	case !dispatched:
		metrics.AutocompleteCallsTotal.WithLabelValues("coalesced").Inc()
	case err != nil:
		metrics.AutocompleteCallsTotal.WithLabelValues("error").Inc()
	default:
		metrics.AutocompleteCallsTotal.WithLabelValues("dispatched").Inc()
	}
	if stale {
		metrics.StaleResponsesTotal.WithLabelValues("autocomplete").Inc()
		err = nil
	}
	if err != nil {
		return Suggestions{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Suggestions{
		Input:       input,
		Dispatched:  dispatched,
		Predictions: append([]geocoding.Prediction{}, s.suggestions...),
	}, nil
}

// Activate clicks the map marker of listingID and reports whether one exists.
func (s *Session) Activate(listingID string) bool {
	return s.viewport.Click(listingID)
}

func (s *Session) Close() {
	s.fetches.Invalidate()
	s.suggests.Invalidate()
	s.debouncer.Cancel()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.syncer.Close()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// activate runs from marker click handlers, which fire outside the viewport
// lock; a resync may have filtered the listing out in between.
func (s *Session) activate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isVisibleLocked(id) {
		s.activeID = id
	}
}

func (s *Session) isVisibleLocked(id string) bool {
	for _, l := range s.visible {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) recomputeLocked() {
	s.visible = filters.Apply(s.records, s.state)
	s.syncer.Sync(s.visible, s.activate)

	if s.activeID != "" && !s.isVisibleLocked(s.activeID) {
		s.activeID = ""
	}
}

func (s *Session) viewLocked() View {
	listings := make([]models.PresentationListing, len(s.visible))
	copy(listings, s.visible)
	return View{
		ID:              s.ID,
		Filters:         s.state,
		Bounds:          s.state.Bounds(),
		Total:           len(s.visible),
		Fetched:         len(s.records),
		Listings:        listings,
		Map:             s.viewport.Snapshot(),
		ActiveListingID: s.activeID,
	}
}
