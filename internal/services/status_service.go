package services

import (
	"context"
	"fmt"
	"time"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/repository"
	"github.com/sirupsen/logrus"
)

// StatusService encapsulates the business logic for dose status.
type StatusService struct {
	repo *repository.StatusRepository
}

// NewStatusService creates a new instance of StatusService.
func NewStatusService(repo *repository.StatusRepository) *StatusService {
	return &StatusService{
		repo: repo,
	}
}

// GetStatus returns the current dose status of a medication. A missing
// record reads as a zero status: nothing taken, never reminded.
func (s *StatusService) GetStatus(ctx context.Context, householdID, medID string) (*models.MedicationStatus, error) {
	status, err := s.repo.GetStatus(ctx, householdID, medID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return &models.MedicationStatus{
			MedID:       medID,
			HouseholdID: householdID,
		}, nil
	}
	return status, nil
}

// MarkDoseTaken records that one slot's dose was given just now.
func (s *StatusService) MarkDoseTaken(ctx context.Context, householdID, medID, slot string) error {
	if slot != models.SlotMorning && slot != models.SlotEvening {
		return fmt.Errorf("invalid slot %q", slot)
	}

	if err := s.repo.MarkTaken(ctx, householdID, medID, slot, time.Now()); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"medID": medID,
		"slot":  slot,
	}).Info("Dose marked taken")
	return nil
}

// ResetTodayStatus clears both taken markers of one medication, making
// today's doses pending again.
func (s *StatusService) ResetTodayStatus(ctx context.Context, householdID, medID string) error {
	return s.repo.ResetStatus(ctx, householdID, medID)
}
