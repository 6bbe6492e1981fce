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

// PetRepository handles database operations related to pets.
type PetRepository struct {
	collection *mongo.Collection
}

// NewPetRepository creates a new instance of PetRepository.
func NewPetRepository(db *mongo.Database) *PetRepository {
	return &PetRepository{
		collection: db.Collection("pets"),
	}
}

// CreatePet inserts a new pet into the database.
func (r *PetRepository) CreatePet(ctx context.Context, pet *models.Pet) (*models.Pet, error) {
	pet.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, pet)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert pet")
		return nil, fmt.Errorf("failed to insert pet: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	pet.ID = insertedID

	logrus.WithFields(logrus.Fields{
		"petID":       pet.ID.Hex(),
		"householdID": pet.HouseholdID,
	}).Info("Pet created successfully")
	return pet, nil
}

// GetPets returns every pet of a household.
func (r *PetRepository) GetPets(ctx context.Context, householdID string) ([]models.Pet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"household_id": householdID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pets: %v", err)
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err := cursor.All(ctx, &pets); err != nil {
		return nil, fmt.Errorf("failed to decode pets: %v", err)
	}
	return pets, nil
}

// GetPet retrieves one pet, scoped to a household. Returns (nil, nil)
// when the pet does not exist in that household.
func (r *PetRepository) GetPet(ctx context.Context, householdID string, id primitive.ObjectID) (*models.Pet, error) {
	var pet models.Pet
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "household_id": householdID}).Decode(&pet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pet: %v", err)
	}
	return &pet, nil
}
