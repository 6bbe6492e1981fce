package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medication is a single medicine given to a pet, e.g. "Apoquel 2.5mg".
type Medication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseholdID string             `bson:"household_id" json:"household_id"`
	PetID       primitive.ObjectID `bson:"pet_id" json:"pet_id"`
	Name        string             `bson:"name" json:"name"`
	Dose        string             `bson:"dose,omitempty" json:"dose,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
