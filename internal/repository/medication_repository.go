package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MedicationRepository handles database operations related to medications.
type MedicationRepository struct {
	collection *mongo.Collection
}

// NewMedicationRepository creates a new instance of MedicationRepository.
func NewMedicationRepository(db *mongo.Database) *MedicationRepository {
	return &MedicationRepository{
		collection: db.Collection("medications"),
	}
}

// CreateMedication inserts a new medication into the database.
func (r *MedicationRepository) CreateMedication(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	med.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, med)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert medication")
		return nil, fmt.Errorf("failed to insert medication: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	med.ID = insertedID

	logrus.WithFields(logrus.Fields{
		"medID":       med.ID.Hex(),
		"householdID": med.HouseholdID,
	}).Info("Medication created successfully")
	return med, nil
}

// GetMedicationsByPet returns all medications registered for one pet.
func (r *MedicationRepository) GetMedicationsByPet(ctx context.Context, householdID string, petID primitive.ObjectID) ([]models.Medication, error) {
	filter := bson.M{"household_id": householdID, "pet_id": petID}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medications: %v", err)
	}
	defer cursor.Close(ctx)

	var meds []models.Medication
	if err := cursor.All(ctx, &meds); err != nil {
		return nil, fmt.Errorf("failed to decode medications: %v", err)
	}
	return meds, nil
}

// GetMedication retrieves one medication, scoped to a household. Returns
// (nil, nil) when it does not exist in that household.
func (r *MedicationRepository) GetMedication(ctx context.Context, householdID string, id primitive.ObjectID) (*models.Medication, error) {
	var med models.Medication
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "household_id": householdID}).Decode(&med)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find medication: %v", err)
	}
	return &med, nil
}
