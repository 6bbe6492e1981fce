package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HouseholdService encapsulates the business logic for households.
type HouseholdService struct {
	repo       *repository.HouseholdRepository
	memberRepo *repository.MemberRepository
}

// NewHouseholdService creates a new instance of HouseholdService.
func NewHouseholdService(repo *repository.HouseholdRepository, memberRepo *repository.MemberRepository) *HouseholdService {
	return &HouseholdService{
		repo:       repo,
		memberRepo: memberRepo,
	}
}

// normalizeCode turns a raw household code into its canonical form.
func normalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// CreateHousehold creates a household with a caller-chosen invite code
// and makes the caller its owner.
func (s *HouseholdService) CreateHousehold(ctx context.Context, codeRaw string, creatorID primitive.ObjectID) (*models.Household, error) {
	code := normalizeCode(codeRaw)
	if code == "" {
		return nil, fmt.Errorf("household code is required")
	}

	existing, err := s.repo.GetHousehold(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("that household code is already taken")
	}

	household := &models.Household{
		ID:        code,
		CreatedBy: creatorID.Hex(),
	}
	if err := s.repo.CreateHousehold(ctx, household); err != nil {
		return nil, err
	}

	if err := s.memberRepo.SetHousehold(ctx, creatorID, code, "owner"); err != nil {
		return nil, fmt.Errorf("household created but failed to attach owner: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"householdID": code,
		"memberID":    creatorID.Hex(),
	}).Info("Household created")
	return household, nil
}

// JoinHousehold attaches the caller to an existing household as a
// regular member. Joining a household you already belong to is a no-op
// beyond refreshing the membership record.
func (s *HouseholdService) JoinHousehold(ctx context.Context, codeRaw string, memberID primitive.ObjectID) (*models.Household, error) {
	code := normalizeCode(codeRaw)
	if code == "" {
		return nil, fmt.Errorf("household code is required")
	}

	household, err := s.repo.GetHousehold(ctx, code)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, fmt.Errorf("household code not found")
	}

	if err := s.memberRepo.SetHousehold(ctx, memberID, code, "member"); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"householdID": code,
		"memberID":    memberID.Hex(),
	}).Info("Member joined household")
	return household, nil
}

// GetHouseholdMembers returns a household and its member roster.
func (s *HouseholdService) GetHouseholdMembers(ctx context.Context, id string) (*models.Household, []models.PublicMember, error) {
	household, err := s.repo.GetHousehold(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if household == nil {
		return nil, nil, fmt.Errorf("household not found")
	}

	members, err := s.memberRepo.GetMembersByHousehold(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	roster := make([]models.PublicMember, 0, len(members))
	for _, m := range members {
		roster = append(roster, models.PublicMember{
			ID:          m.ID,
			Username:    m.Username,
			Role:        m.Role,
			HouseholdID: m.HouseholdID,
		})
	}
	return household, roster, nil
}
