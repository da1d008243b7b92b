package models

import "time"

// Profile is the public face of a user; its ID equals the user's ID.
type Profile struct {
	ID              string    `json:"id" bson:"_id"`
	Email           string    `json:"email" bson:"email"`
	FullName        *string   `json:"full_name" bson:"full_name,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url" bson:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

type UpdateProfileRequest struct {
	FullName        *string `json:"full_name"`
	ProfileImageURL *string `json:"profile_image_url"`
}
