package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing is a persisted sublease record.
type Listing struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID        string             `json:"user_id" bson:"user_id"`
	Title          string             `json:"title" bson:"title"`
	Description    *string            `json:"description" bson:"description,omitempty"`
	Price          float64            `json:"price" bson:"price"`
	Location       string             `json:"location" bson:"location"`
	Latitude       *float64           `json:"latitude" bson:"latitude,omitempty"`
	Longitude      *float64           `json:"longitude" bson:"longitude,omitempty"`
	Images         []string           `json:"images" bson:"images,omitempty"`
	PropertyType   *string            `json:"property_type" bson:"property_type,omitempty"`
	Bedrooms       *int               `json:"bedrooms" bson:"bedrooms,omitempty"`
	Bathrooms      *float64           `json:"bathrooms" bson:"bathrooms,omitempty"`
	MaxOccupancy   *int               `json:"max_occupancy" bson:"max_occupancy,omitempty"`
	SquareFeet     *int               `json:"square_feet" bson:"square_feet,omitempty"`
	Furnished      *bool              `json:"furnished" bson:"furnished,omitempty"`
	Amenities      []string           `json:"amenities" bson:"amenities,omitempty"`
	HouseRules     *string            `json:"house_rules" bson:"house_rules,omitempty"`
	StartDate      *string            `json:"start_date" bson:"start_date,omitempty"`
	EndDate        *string            `json:"end_date" bson:"end_date,omitempty"`
	NearestCampus  *string            `json:"nearest_campus" bson:"nearest_campus,omitempty"`
	CampusDistance *float64           `json:"campus_distance" bson:"campus_distance,omitempty"`
	Rating         *float64           `json:"rating,omitempty" bson:"rating,omitempty"`
	ReviewCount    *int               `json:"review_count,omitempty" bson:"review_count,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// ListingInput carries client-supplied fields for create and update.
// Nil fields are left untouched on update.
type ListingInput struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	Location       *string  `json:"location"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Images         []string `json:"images"`
	PropertyType   *string  `json:"property_type"`
	Bedrooms       *int     `json:"bedrooms"`
	Bathrooms      *float64 `json:"bathrooms"`
	MaxOccupancy   *int     `json:"max_occupancy"`
	SquareFeet     *int     `json:"square_feet"`
	Furnished      *bool    `json:"furnished"`
	Amenities      []string `json:"amenities"`
	HouseRules     *string  `json:"house_rules"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	NearestCampus  *string  `json:"nearest_campus"`
	CampusDistance *float64 `json:"campus_distance"`
}

// PresentationListing is a Listing enriched with display fields.
// Rebuilt on every fetch, never persisted.
type PresentationListing struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Location       string    `json:"location"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	Images         []string  `json:"images"`
	PropertyType   string    `json:"property_type"`
	Bedrooms       *int      `json:"bedrooms,omitempty"`
	Bathrooms      *float64  `json:"bathrooms,omitempty"`
	Furnished      *bool     `json:"furnished,omitempty"`
	Amenities      []string  `json:"amenities"`
	NearestCampus  string    `json:"nearest_campus,omitempty"`
	CampusDistance *float64  `json:"campus_distance,omitempty"`
	ImageURL       string    `json:"image_url"`
	Rating         float64   `json:"rating"`
	ReviewCount    int       `json:"review_count"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *PresentationListing) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

type PaginationMeta struct {
	Total  int64   `json:"total"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
	Next   *string `json:"next,omitempty"`
	Prev   *string `json:"prev,omitempty"`
}

type PaginatedListingsResponse struct {
	Data []PresentationListing `json:"data"`
	Meta PaginationMeta        `json:"meta"`
}
