package repositories

import (
	"context"
	stderrors "errors"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/utils"
	"campus-sublets/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profilesCollection = database.ProfilesCollection

type profileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{
		collection: database.DB.Collection(profilesCollection),
	}
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	start := time.Now()
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	notFound := stderrors.Is(err, mongo.ErrNoDocuments)
	utils.ObserveMongo("find_one", profilesCollection, start, err, notFound)
	if notFound {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, profile)
	utils.ObserveMongo("insert", profilesCollection, start, err, false)
	return err
}

func (r *profileRepository) Update(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.FullName != nil {
		set["full_name"] = req.FullName
	}
	if req.ProfileImageURL != nil {
		set["profile_image_url"] = req.ProfileImageURL
	}

	start := time.Now()
	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	notFound := stderrors.Is(err, mongo.ErrNoDocuments)
	utils.ObserveMongo("find_one_and_update", profilesCollection, start, err, notFound)
	if notFound {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
