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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messagesCollection = database.MessagesCollection

type messageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository() MessageRepository {
	return &messageRepository{
		collection: database.DB.Collection(messagesCollection),
	}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now().UTC()
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	utils.ObserveMongo("insert", messagesCollection, start, err, false)
	return err
}

func (r *messageRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrMessageNotFound
	}
	start := time.Now()
	var message models.Message
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&message)
	notFound := stderrors.Is(err, mongo.ErrNoDocuments)
	utils.ObserveMongo("find_one", messagesCollection, start, err, notFound)
	if notFound {
		return nil, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) find(ctx context.Context, filter bson.M, createdOrder int) ([]models.Message, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: createdOrder}}))
	utils.ObserveMongo("find", messagesCollection, start, err, false)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	start = time.Now()
	err = cursor.All(ctx, &messages)
	utils.ObserveMongo("cursor_all", messagesCollection, start, err, false)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FindForUser returns messages sent or received by userID, newest first.
func (r *messageRepository) FindForUser(ctx context.Context, userID string) ([]models.Message, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}, -1)
}

// FindConversation returns messages between two users, oldest first.
func (r *messageRepository) FindConversation(ctx context.Context, userID, otherUserID string) ([]models.Message, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": userID, "receiver_id": otherUserID},
		bson.M{"sender_id": otherUserID, "receiver_id": userID},
	}}, 1)
}

// MarkRead flags a message read when receiverID received it.
func (r *messageRepository) MarkRead(ctx context.Context, id, receiverID string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrMessageNotFound
	}
	start := time.Now()
	var message models.Message
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "receiver_id": receiverID},
		bson.M{"$set": bson.M{"read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&message)
	notFound := stderrors.Is(err, mongo.ErrNoDocuments)
	utils.ObserveMongo("find_one_and_update", messagesCollection, start, err, notFound)
	if notFound {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, apperrors.NewOwnershipError("mark as read", "received messages")
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}
