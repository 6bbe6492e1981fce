package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PetService encapsulates the business logic for pets.
type PetService struct {
	repo *repository.PetRepository
}

// NewPetService creates a new instance of PetService.
func NewPetService(repo *repository.PetRepository) *PetService {
	return &PetService{
		repo: repo,
	}
}

// AddPet registers a new pet in a household.
func (s *PetService) AddPet(ctx context.Context, householdID, nameRaw string) (*models.Pet, error) {
	name := strings.TrimSpace(nameRaw)
	if name == "" {
		return nil, fmt.Errorf("pet name is required")
	}

	pet := &models.Pet{
		HouseholdID: householdID,
		Name:        name,
	}
	return s.repo.CreatePet(ctx, pet)
}

// GetPets lists every pet of a household.
func (s *PetService) GetPets(ctx context.Context, householdID string) ([]models.Pet, error) {
	return s.repo.GetPets(ctx, householdID)
}

// GetPet fetches one pet scoped to a household.
func (s *PetService) GetPet(ctx context.Context, householdID string, id primitive.ObjectID) (*models.Pet, error) {
	return s.repo.GetPet(ctx, householdID, id)
}
