package mapsync

import (
	"math"
	"sync"
)

const (
	tileSize      = 256
	maxZoomLevel  = 21
	defaultWidth  = 1024
	defaultHeight = 640
)

type ViewportConfig struct {
	Width   int
	Height  int
	Padding int
	Center  LatLng
	Zoom    float64
}

// Viewport is a headless Surface. It records markers and computes the
// center and zoom a Web Mercator map of the configured pixel size would show.
type Viewport struct {
	mu      sync.Mutex
	cfg     ViewportConfig
	ready   bool
	center  LatLng
	zoom    float64
	markers []*viewportMarker
	summary *Summary
}

func NewViewport(cfg ViewportConfig) *Viewport {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Padding < 0 {
		cfg.Padding = 0
	}
	return &Viewport{cfg: cfg, center: cfg.Center, zoom: cfg.Zoom}
}

// MarkReady flags the surface as loaded.
func (v *Viewport) MarkReady() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ready = true
}

func (v *Viewport) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ready
}

func (v *Viewport) CreateMarker(opts MarkerOptions) Marker {
	v.mu.Lock()
	defer v.mu.Unlock()
	m := &viewportMarker{viewport: v, opts: opts, handlers: map[int]func(){}}
	v.markers = append(v.markers, m)
	return m
}

func (v *Viewport) FitBounds(b Bounds) {
	if b.IsEmpty() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center = b.Center()
	v.zoom = FitZoom(b, v.cfg.Width, v.cfg.Height, v.cfg.Padding)
}

func (v *Viewport) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

func (v *Viewport) SetZoom(z float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom = z
}

func (v *Viewport) Center() LatLng {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center
}

func (v *Viewport) ShowSummary(_ Marker, s Summary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.summary = &s
}

// Click fires the click handlers of the marker for listingID and reports
// whether such a marker exists.
func (v *Viewport) Click(listingID string) bool {
	v.mu.Lock()
	var handlers []func()
	found := false
	for _, m := range v.markers {
		if m.opts.ListingID != listingID {
			continue
		}
		found = true
		for _, id := range m.handlerOrder {
			if h, ok := m.handlers[id]; ok {
				handlers = append(handlers, h)
			}
		}
		break
	}
	v.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	return found
}

type MarkerSnapshot struct {
	ListingID string `json:"listing_id"`
	Position  LatLng `json:"position"`
	Label     string `json:"label"`
	Title     string `json:"title"`
}

type Snapshot struct {
	Ready   bool             `json:"ready"`
	Center  LatLng           `json:"center"`
	Zoom    float64          `json:"zoom"`
	Markers []MarkerSnapshot `json:"markers"`
	Summary *Summary         `json:"summary,omitempty"`
}

func (v *Viewport) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	snap := Snapshot{
		Ready:   v.ready,
		Center:  v.center,
		Zoom:    v.zoom,
		Markers: make([]MarkerSnapshot, 0, len(v.markers)),
	}
	for _, m := range v.markers {
		snap.Markers = append(snap.Markers, MarkerSnapshot{
			ListingID: m.opts.ListingID,
			Position:  m.opts.Position,
			Label:     m.opts.Label,
			Title:     m.opts.Title,
		})
	}
	if v.summary != nil {
		s := *v.summary
		snap.Summary = &s
	}
	return snap
}

func (v *Viewport) removeMarker(target *viewportMarker) {
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.markers[:0]
	for _, m := range v.markers {
		if m != target {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(v.markers); i++ {
		v.markers[i] = nil
	}
	v.markers = kept
	if v.summary != nil && v.summary.ListingID == target.opts.ListingID {
		v.summary = nil
	}
}

type viewportMarker struct {
	viewport     *Viewport
	opts         MarkerOptions
	handlers     map[int]func()
	handlerOrder []int
	nextID       int
}

func (m *viewportMarker) Position() LatLng {
	return m.opts.Position
}

func (m *viewportMarker) OnClick(fn func()) Listener {
	m.viewport.mu.Lock()
	defer m.viewport.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = fn
	m.handlerOrder = append(m.handlerOrder, id)
	return &viewportListener{marker: m, id: id}
}

func (m *viewportMarker) Remove() {
	m.viewport.removeMarker(m)
}

type viewportListener struct {
	marker *viewportMarker
	id     int
}

func (l *viewportListener) Remove() {
	l.marker.viewport.mu.Lock()
	defer l.marker.viewport.mu.Unlock()
	delete(l.marker.handlers, l.id)
}

// FitZoom returns the largest integer zoom at which b fits in a
// width x height pixel map with the given padding on every side.
func FitZoom(b Bounds, width, height, padding int) float64 {
	w := float64(width - 2*padding)
	h := float64(height - 2*padding)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	latFraction := (latRad(b.NorthEast.Lat) - latRad(b.SouthWest.Lat)) / math.Pi
	lngDiff := b.NorthEast.Lng - b.SouthWest.Lng
	if lngDiff < 0 {
		lngDiff += 360
	}
	lngFraction := lngDiff / 360

	z := math.Min(zoomFor(h, latFraction), zoomFor(w, lngFraction))
	z = math.Min(z, maxZoomLevel)
	return math.Max(z, 0)
}

func latRad(lat float64) float64 {
	sin := math.Sin(lat * math.Pi / 180)
	radX2 := math.Log((1+sin)/(1-sin)) / 2
	return math.Max(math.Min(radX2, math.Pi), -math.Pi) / 2
}

func zoomFor(px, fraction float64) float64 {
	if fraction <= 0 {
		return maxZoomLevel
	}
	return math.Floor(math.Log2(px / tileSize / fraction))
}
