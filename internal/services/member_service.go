package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// MemberService encapsulates the business logic for member accounts.
type MemberService struct {
	repo *repository.MemberRepository
}

// NewMemberService creates a new instance of MemberService.
func NewMemberService(repo *repository.MemberRepository) *MemberService {
	return &MemberService{
		repo: repo,
	}
}

// RegisterMember registers a new member after hashing their password.
func (s *MemberService) RegisterMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	logrus.Info("Registering new member")

	if member.Email == "" || member.Username == "" || member.HashedPassword == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("missing required member fields")
	}

	if !emailRegex.MatchString(member.Email) {
		logrus.WithField("email", member.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	existing, err := s.repo.GetMemberByEmail(ctx, member.Email)
	if err != nil && !errors.Is(err, repository.ErrMemberNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %v", err)
	}
	if existing != nil {
		logrus.WithField("email", member.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(member.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	member.HashedPassword = string(hashedPwd)

	// New accounts start without a household; CreateHousehold or
	// JoinHousehold assigns one later.
	member.HouseholdID = ""
	member.Role = "member"

	created, err := s.repo.CreateMember(ctx, member)
	if err != nil {
		logrus.WithError(err).Error("Member registration failed")
		return nil, fmt.Errorf("failed to register member: %v", err)
	}

	logrus.WithField("memberID", created.ID.Hex()).Info("Member registered successfully")
	return created, nil
}

// AuthenticateMember verifies a member's credentials.
func (s *MemberService) AuthenticateMember(ctx context.Context, email, password string) (*models.Member, error) {
	member, err := s.repo.GetMemberByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	return member, nil
}

// GetMember fetches one member by id.
func (s *MemberService) GetMember(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	return s.repo.GetMemberByID(ctx, id)
}

// RegisterPushToken stores a device push token on the member record so
// the reminder job can fan out to it.
func (s *MemberService) RegisterPushToken(ctx context.Context, memberID primitive.ObjectID, token string) error {
	if token == "" {
		return fmt.Errorf("push token is required")
	}
	return s.repo.AddPushToken(ctx, memberID, token)
}
