package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   string             `json:"sender_id" bson:"sender_id"`
	ReceiverID string             `json:"receiver_id" bson:"receiver_id"`
	ListingID  *string            `json:"listing_id" bson:"listing_id,omitempty"`
	Content    string             `json:"content" bson:"content"`
	Read       bool               `json:"read" bson:"read"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

type SendMessageRequest struct {
	ReceiverID string  `json:"receiver_id"`
	ListingID  *string `json:"listing_id"`
	Content    string  `json:"content"`
}
