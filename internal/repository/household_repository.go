package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// HouseholdRepository handles database operations related to households.
type HouseholdRepository struct {
	collection *mongo.Collection
}

// NewHouseholdRepository creates a new instance of HouseholdRepository.
func NewHouseholdRepository(db *mongo.Database) *HouseholdRepository {
	return &HouseholdRepository{
		collection: db.Collection("households"),
	}
}

// CreateHousehold inserts a new household. The household code is the
// document id, so inserting an already-taken code fails with a duplicate
// key error.
func (r *HouseholdRepository) CreateHousehold(ctx context.Context, household *models.Household) error {
	household.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, household)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("household code already taken")
		}
		logrus.WithError(err).Error("Failed to insert household")
		return fmt.Errorf("failed to create household: %v", err)
	}

	logrus.WithField("householdID", household.ID).Info("Household created successfully")
	return nil
}

// GetHousehold retrieves a household by its code. Returns (nil, nil) when
// the code does not exist.
func (r *HouseholdRepository) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	var household models.Household
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&household)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logrus.WithFields(logrus.Fields{
			"householdID": id,
			"error":       err,
		}).Warn("Failed to find household")
		return nil, fmt.Errorf("failed to find household: %v", err)
	}
	return &household, nil
}
