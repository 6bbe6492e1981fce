package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member represents a user account. A member belongs to at most one
// household and carries the push tokens of their registered devices.
type Member struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseholdID        string             `bson:"household_id,omitempty" json:"household_id,omitempty"`
	Username           string             `bson:"username" json:"username"`
	Email              string             `bson:"email" json:"email"`
	HashedPassword     string             `bson:"hashed_password" json:"-"`
	Role               string             `bson:"role" json:"role"`
	PushTokens         []string           `bson:"push_tokens,omitempty" json:"push_tokens,omitempty"`
	PushTokenUpdatedAt *time.Time         `bson:"push_token_updated_at,omitempty" json:"push_token_updated_at,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

type PublicMember struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	Role        string             `json:"role"`
	HouseholdID string             `json:"household_id,omitempty"`
}
