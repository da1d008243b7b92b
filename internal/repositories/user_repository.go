package repositories

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/utils"
	"campus-sublets/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = database.UsersCollection

type userRepository struct {
	db *mongo.Database
}

func NewUserRepository() UserRepository {
	return &userRepository{
		db: database.DB,
	}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	collection := r.db.Collection(usersCollection)
	start := time.Now()
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	notFound := stderrors.Is(err, mongo.ErrNoDocuments)
	utils.ObserveMongo("find_one", usersCollection, start, err, notFound)
	if notFound {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(user.Email)
	collection := r.db.Collection(usersCollection)
	start := time.Now()
	_, err := collection.InsertOne(ctx, user)
	utils.ObserveMongo("insert", usersCollection, start, err, false)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrEmailTaken
	}
	return err
}
