package models

import (
	"time"
)

// Household is the tenant boundary of the system. Its ID is a short
// human-shareable invite code chosen at creation time, stored uppercase.
type Household struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
