package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pet belongs to a household and owns zero or more medications.
type Pet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseholdID string             `bson:"household_id" json:"household_id"`
	Name        string             `bson:"name" json:"name"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
