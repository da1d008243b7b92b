package transformers

import (
	"campus-sublets/internal/models"
)

type ListingNormalizer interface {
	Normalize(records []models.Listing) []models.PresentationListing
	NormalizeOne(record models.Listing) models.PresentationListing
}

type AddressTransformer interface {
	CleanLocation(input string) string
}
