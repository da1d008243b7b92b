package repositories

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/utils"
	"campus-sublets/pkg/database"
	"campus-sublets/pkg/geocoding"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingsCollection = database.ListingsCollection

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository() ListingRepository {
	return &listingRepository{
		collection: database.DB.Collection(listingsCollection),
	}
}

// listingFilter translates q into a Mongo filter.
func listingFilter(q ListingQuery) bson.M {
	filter := bson.M{}
	if q.OwnerID != "" {
		filter["user_id"] = q.OwnerID
	}
	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if pt := strings.TrimSpace(q.PropertyType); pt != "" && !strings.EqualFold(pt, "any") {
		filter["property_type"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(pt) + "$", Options: "i"}
	}
	return filter
}

func (r *listingRepository) Find(ctx context.Context, q ListingQuery) ([]models.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	start := time.Now()
	cursor, err := r.collection.Find(ctx, listingFilter(q), findOptions)
	utils.ObserveMongo("find", listingsCollection, start, err, false)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	start = time.Now()
	err = cursor.All(ctx, &listings)
	utils.ObserveMongo("cursor_all", listingsCollection, start, err, false)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrListingNotFound
	}
	start := time.Now()
	var listing models.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&listing)
	notFound := stderrors.Is(err, mongo.ErrNoDocuments)
	utils.ObserveMongo("find_one", listingsCollection, start, err, notFound)
	if notFound {
		return nil, apperrors.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	now := time.Now().UTC()
	listing.ID = primitive.NewObjectID()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, listing)
	utils.ObserveMongo("insert", listingsCollection, start, err, false)
	return err
}

// listingUpdate builds the $set document for the non-nil fields of input.
func listingUpdate(input *models.ListingInput, coords *geocoding.Coordinates, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	put := func(key string, present bool, value interface{}) {
		if present {
			set[key] = value
		}
	}
	put("title", input.Title != nil, deref(input.Title))
	put("description", input.Description != nil, input.Description)
	put("price", input.Price != nil, derefFloat(input.Price))
	put("location", input.Location != nil, deref(input.Location))
	put("latitude", input.Latitude != nil, input.Latitude)
	put("longitude", input.Longitude != nil, input.Longitude)
	put("images", input.Images != nil, input.Images)
	put("property_type", input.PropertyType != nil, input.PropertyType)
	put("bedrooms", input.Bedrooms != nil, input.Bedrooms)
	put("bathrooms", input.Bathrooms != nil, input.Bathrooms)
	put("max_occupancy", input.MaxOccupancy != nil, input.MaxOccupancy)
	put("square_feet", input.SquareFeet != nil, input.SquareFeet)
	put("furnished", input.Furnished != nil, input.Furnished)
	put("amenities", input.Amenities != nil, input.Amenities)
	put("house_rules", input.HouseRules != nil, input.HouseRules)
	put("start_date", input.StartDate != nil, input.StartDate)
	put("end_date", input.EndDate != nil, input.EndDate)
	put("nearest_campus", input.NearestCampus != nil, input.NearestCampus)
	put("campus_distance", input.CampusDistance != nil, input.CampusDistance)
	if coords != nil {
		set["latitude"] = coords.Lat
		set["longitude"] = coords.Lng
	}
	return bson.M{"$set": set}
}

// Update applies input to the listing when ownerID owns it.
func (r *listingRepository) Update(ctx context.Context, id, ownerID string, input *models.ListingInput, coords *geocoding.Coordinates) (*models.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrListingNotFound
	}

	start := time.Now()
	var updated models.Listing
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": ownerID},
		listingUpdate(input, coords, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	notFound := stderrors.Is(err, mongo.ErrNoDocuments)
	utils.ObserveMongo("find_one_and_update", listingsCollection, start, err, notFound)
	if notFound {
		return nil, r.missOrForbidden(ctx, oid, "update")
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *listingRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrListingNotFound
	}

	start := time.Now()
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": ownerID})
	utils.ObserveMongo("delete_one", listingsCollection, start, err, false)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return r.missOrForbidden(ctx, oid, "delete")
	}
	return nil
}

// missOrForbidden tells a missing listing from one owned by someone else.
func (r *listingRepository) missOrForbidden(ctx context.Context, oid primitive.ObjectID, action string) error {
	start := time.Now()
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	utils.ObserveMongo("count_documents", listingsCollection, start, err, false)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrListingNotFound
	}
	return apperrors.NewOwnershipError(action, "listings")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
