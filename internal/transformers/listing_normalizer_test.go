package transformers

import (
	"testing"
	"time"

	"campus-sublets/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestNormalizePreservesLengthAndOrder(t *testing.T) {
	n := NewListingNormalizer(NormalizerOptions{})
	records := []models.Listing{
		{ID: primitive.NewObjectID(), Title: "a", Images: []string{"https://img/a.jpg", "https://img/a2.jpg"}},
		{ID: primitive.NewObjectID(), Title: "b"},
		{ID: primitive.NewObjectID(), Title: "c", Images: []string{}},
	}

	out := n.Normalize(records)
	require.Len(t, out, len(records))
	for i := range records {
		assert.Equal(t, records[i].ID.Hex(), out[i].ID)
	}
	assert.Equal(t, "https://img/a.jpg", out[0].ImageURL)
	assert.Equal(t, DefaultNoImageURL, out[1].ImageURL)
	assert.Equal(t, DefaultNoImageURL, out[2].ImageURL)
	assert.Empty(t, n.Normalize(nil))
}

func TestNormalizeFallbacks(t *testing.T) {
	n := NewListingNormalizer(NormalizerOptions{
		NoImageURL: "/none.png",
		Fallbacks:  Fallbacks{Rating: 4.5, ReviewCount: 3, StartDate: "TBD", EndDate: "TBD"},
	})

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bare := models.Listing{Title: "bare", Price: 900, Images: []string{""}, ReviewCount: intPtr(-2), StartDate: strPtr(" "), CreatedAt: created}
	got := n.NormalizeOne(bare)
	want := models.PresentationListing{
		ID:          primitive.NilObjectID.Hex(),
		Title:       "bare",
		Price:       900,
		Images:      []string{""},
		Amenities:   []string{},
		ImageURL:    "/none.png",
		Rating:      4.5,
		ReviewCount: 3,
		StartDate:   "TBD",
		EndDate:     "TBD",
		CreatedAt:   created,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeOne() mismatch (-want +got):\n%s", diff)
	}

	rich := models.Listing{Rating: floatPtr(0), ReviewCount: intPtr(0), StartDate: strPtr("2024-06-01"), EndDate: strPtr("2024-08-31")}
	got = n.NormalizeOne(rich)
	assert.Equal(t, 0.0, got.Rating)
	assert.Equal(t, 0, got.ReviewCount)
	assert.Equal(t, "2024-06-01", got.StartDate)
	assert.Equal(t, "2024-08-31", got.EndDate)
}

func TestNormalizeKeepsFirstImageVerbatim(t *testing.T) {
	n := NewListingNormalizer(NormalizerOptions{})

	got := n.NormalizeOne(models.Listing{Images: []string{" ", "https://img/b.jpg"}})
	assert.Equal(t, " ", got.ImageURL)

	got = n.NormalizeOne(models.Listing{Images: []string{"", "https://img/b.jpg"}})
	assert.Equal(t, DefaultNoImageURL, got.ImageURL)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	n := NewListingNormalizer(NormalizerOptions{})
	lat := 37.87
	records := []models.Listing{{Images: []string{"x"}, Latitude: &lat, Description: strPtr("d")}}
	out := n.Normalize(records)
	out[0].Images[0] = "changed"
	*out[0].Latitude = 0

	assert.Equal(t, "x", records[0].Images[0])
	assert.Equal(t, 37.87, *records[0].Latitude)
	assert.Equal(t, "d", out[0].Description)
}

func TestCleanLocation(t *testing.T) {
	tr := NewAddressTransformer()
	assert.Equal(t, "2400 Durant Ave, Berkeley, CA", tr.CleanLocation("  2400  Durant Ave ,Berkeley,,  CA "))
	assert.Equal(t, "", tr.CleanLocation("  , "))
}
