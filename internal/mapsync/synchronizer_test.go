package mapsync

import (
	"encoding/json"
	"testing"

	"campus-sublets/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func listing(id string, price float64, coords bool, lat, lng float64) models.PresentationListing {
	l := models.PresentationListing{ID: id, Title: "Listing " + id, Location: "Somewhere", Price: price}
	if coords {
		l.Latitude, l.Longitude = at(lat, lng)
	}
	return l
}

func readyViewport() *Viewport {
	v := NewViewport(ViewportConfig{Width: 1024, Height: 640, Center: LatLng{Lat: 37.7749, Lng: -122.4194}, Zoom: 12})
	v.MarkReady()
	return v
}

func TestSyncPlacesOneMarkerPerCoordinateListing(t *testing.T) {
	v := readyViewport()
	s := New(v)

	partial := models.PresentationListing{ID: "lat-only", Price: 1}
	lat := 1.0
	partial.Latitude = &lat

	placed := s.Sync([]models.PresentationListing{
		listing("1", 1200, true, 37.8716, -122.2727),
		listing("2", 950, false, 0, 0),
		listing("3", 1400, true, 42.3601, -71.0589),
		partial,
	}, nil)

	assert.Equal(t, 2, placed)
	assert.Equal(t, 2, s.MarkerCount())
	snap := v.Snapshot()
	require.Len(t, snap.Markers, 2)
	assert.Equal(t, "1", snap.Markers[0].ListingID)
	assert.Equal(t, "$1200", snap.Markers[0].Label)
	assert.Equal(t, LatLng{Lat: 42.3601, Lng: -71.0589}, snap.Markers[1].Position)
	assert.Equal(t, 4.0, snap.Zoom)
}

func TestSyncDoesNotAccumulateMarkers(t *testing.T) {
	v := readyViewport()
	s := New(v)

	first := []models.PresentationListing{
		listing("1", 1, true, 10, 10),
		listing("2", 2, true, 11, 11),
		listing("3", 3, true, 12, 12),
	}
	second := []models.PresentationListing{listing("9", 9, true, 20, 20)}

	s.Sync(first, nil)
	s.Sync(second, nil)
	s.Sync(second, nil)

	snap := v.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, "9", snap.Markers[0].ListingID)
	assert.False(t, v.Click("1"), "stale marker must be gone")
}

func TestSyncCapsZoom(t *testing.T) {
	v := readyViewport()
	s := New(v)

	s.Sync([]models.PresentationListing{listing("1", 1200, true, 37.8716, -122.2727)}, nil)
	assert.Equal(t, 16.0, v.Zoom())
	assert.Equal(t, LatLng{Lat: 37.8716, Lng: -122.2727}, v.Center())

	s2 := New(readyViewport(), WithMaxZoom(10))
	placed := s2.Sync([]models.PresentationListing{
		listing("a", 1, true, 37.8716, -122.2727),
		listing("b", 1, true, 37.8800, -122.2500),
	}, nil)
	assert.Equal(t, 2, placed)
	assert.Equal(t, 10.0, s2.surface.Zoom())
}

func TestSyncWithNoMarkersLeavesViewport(t *testing.T) {
	v := readyViewport()
	s := New(v)

	s.Sync([]models.PresentationListing{listing("1", 1, false, 0, 0)}, nil)
	assert.Equal(t, 12.0, v.Zoom())
	assert.Equal(t, LatLng{Lat: 37.7749, Lng: -122.4194}, v.Center())
	assert.Zero(t, s.MarkerCount())
}

func TestSyncBeforeReadyIsQueued(t *testing.T) {
	v := NewViewport(ViewportConfig{})
	s := New(v)

	assert.Zero(t, s.Sync([]models.PresentationListing{listing("old", 1, true, 1, 1)}, nil))
	assert.Zero(t, s.Sync([]models.PresentationListing{listing("new", 1, true, 2, 2), listing("new2", 1, true, 3, 3)}, nil))
	assert.Empty(t, v.Snapshot().Markers)

	assert.Zero(t, s.SurfaceReady(), "still not ready")
	v.MarkReady()
	assert.Equal(t, 2, s.SurfaceReady())
	snap := v.Snapshot()
	require.Len(t, snap.Markers, 2)
	assert.Equal(t, "new", snap.Markers[0].ListingID)
	assert.Zero(t, s.SurfaceReady(), "queue is drained")
}

func TestMarkerClickActivatesListing(t *testing.T) {
	v := readyViewport()
	s := New(v)

	var activated []string
	s.Sync([]models.PresentationListing{listing("1", 1200, true, 37.87, -122.27)}, func(id string) {
		activated = append(activated, id)
	})

	require.True(t, v.Click("1"))
	assert.Equal(t, []string{"1"}, activated)
	snap := v.Snapshot()
	require.NotNil(t, snap.Summary)
	assert.Equal(t, Summary{ListingID: "1", Title: "Listing 1", Location: "Somewhere", Price: 1200}, *snap.Summary)

	s.Sync([]models.PresentationListing{listing("2", 1, true, 1, 1)}, func(id string) {
		activated = append(activated, "second:"+id)
	})
	v.Click("2")
	assert.Equal(t, []string{"1", "second:2"}, activated)
}

func TestCloseReleasesEverything(t *testing.T) {
	v := readyViewport()
	s := New(v)
	s.Sync([]models.PresentationListing{listing("1", 1, true, 1, 1)}, func(string) { t.Fatal("closed marker clicked") })

	s.Close()
	assert.Empty(t, v.Snapshot().Markers)
	assert.False(t, v.Click("1"))
	assert.Zero(t, s.Sync([]models.PresentationListing{listing("2", 1, true, 1, 1)}, nil))
	assert.Empty(t, v.Snapshot().Markers)
}

func TestSnapshotJSON(t *testing.T) {
	v := readyViewport()
	New(v).Sync([]models.PresentationListing{listing("1", 1250.5, true, 1, 2)}, nil)

	data, err := json.Marshal(v.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ready":true,"center":{"lat":1,"lng":2},"zoom":16,
		"markers":[{"listing_id":"1","position":{"lat":1,"lng":2},"label":"$1250.50","title":"Listing 1"}]}`, string(data))
}

func TestFitZoom(t *testing.T) {
	var b Bounds
	b.Extend(LatLng{Lat: 37.8716, Lng: -122.2727})
	b.Extend(LatLng{Lat: 37.88, Lng: -122.25})
	assert.Equal(t, 15.0, FitZoom(b, 1024, 640, 0))

	var point Bounds
	point.Extend(LatLng{Lat: 1, Lng: 1})
	assert.Equal(t, 21.0, FitZoom(point, 1024, 640, 0))
}

func TestBoundsExtend(t *testing.T) {
	var b Bounds
	assert.True(t, b.IsEmpty())
	b.Extend(LatLng{Lat: 1, Lng: 5})
	b.Extend(LatLng{Lat: -2, Lng: 7})
	assert.Equal(t, LatLng{Lat: -2, Lng: 5}, b.SouthWest)
	assert.Equal(t, LatLng{Lat: 1, Lng: 7}, b.NorthEast)
	assert.Equal(t, LatLng{Lat: -0.5, Lng: 6}, b.Center())
}
