package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultReminderMinutes = 15
	defaultTimezone        = "America/Vancouver"
)

// MedicationService encapsulates the business logic for medications and
// their dosing schedules.
type MedicationService struct {
	repo         *repository.MedicationRepository
	scheduleRepo *repository.ScheduleRepository
	petRepo      *repository.PetRepository
}

// NewMedicationService creates a new instance of MedicationService.
func NewMedicationService(repo *repository.MedicationRepository, scheduleRepo *repository.ScheduleRepository, petRepo *repository.PetRepository) *MedicationService {
	return &MedicationService{
		repo:         repo,
		scheduleRepo: scheduleRepo,
		petRepo:      petRepo,
	}
}

// AddMedication registers a new medication for a pet in the household.
func (s *MedicationService) AddMedication(ctx context.Context, householdID string, petID primitive.ObjectID, nameRaw, doseRaw string) (*models.Medication, error) {
	name := strings.TrimSpace(nameRaw)
	if name == "" {
		return nil, fmt.Errorf("medication name is required")
	}

	pet, err := s.petRepo.GetPet(ctx, householdID, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, fmt.Errorf("pet not found in this household")
	}

	med := &models.Medication{
		HouseholdID: householdID,
		PetID:       petID,
		Name:        name,
		Dose:        strings.TrimSpace(doseRaw),
	}
	return s.repo.CreateMedication(ctx, med)
}

// GetMedication fetches one medication scoped to a household.
func (s *MedicationService) GetMedication(ctx context.Context, householdID string, id primitive.ObjectID) (*models.Medication, error) {
	return s.repo.GetMedication(ctx, householdID, id)
}

// GetMedicationsByPet lists all medications of one pet.
func (s *MedicationService) GetMedicationsByPet(ctx context.Context, householdID string, petID primitive.ObjectID) ([]models.Medication, error) {
	return s.repo.GetMedicationsByPet(ctx, householdID, petID)
}

// SetSchedule creates or updates the dosing schedule of a medication.
// Missing reminder lead time and timezone fall back to the product
// defaults.
func (s *MedicationService) SetSchedule(ctx context.Context, schedule *models.MedicationSchedule) error {
	medID, err := primitive.ObjectIDFromHex(schedule.MedID)
	if err != nil {
		return fmt.Errorf("invalid medication id: %v", err)
	}

	med, err := s.repo.GetMedication(ctx, schedule.HouseholdID, medID)
	if err != nil {
		return err
	}
	if med == nil {
		return fmt.Errorf("medication not found in this household")
	}

	if err := validateSlotTime(schedule.MorningTime); err != nil {
		return fmt.Errorf("invalid morning time: %v", err)
	}
	if err := validateSlotTime(schedule.EveningTime); err != nil {
		return fmt.Errorf("invalid evening time: %v", err)
	}

	if schedule.ReminderMinutes <= 0 {
		schedule.ReminderMinutes = defaultReminderMinutes
	}
	if schedule.Timezone == "" {
		schedule.Timezone = defaultTimezone
	}
	if _, err := time.LoadLocation(schedule.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %v", schedule.Timezone, err)
	}

	if err := s.scheduleRepo.UpsertSchedule(ctx, schedule); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"medID":       schedule.MedID,
		"householdID": schedule.HouseholdID,
	}).Info("Medication schedule updated")
	return nil
}

// GetSchedule fetches the dosing schedule of one medication, or nil
// when no schedule has been set yet.
func (s *MedicationService) GetSchedule(ctx context.Context, householdID, medID string) (*models.MedicationSchedule, error) {
	return s.scheduleRepo.GetSchedule(ctx, householdID, medID)
}

// validateSlotTime checks an "HH:MM" wall-clock string.
func validateSlotTime(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("want HH:MM, got %q", value)
	}
	return nil
}
