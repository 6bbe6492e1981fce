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

// MemberRepository handles database operations related to members.
type MemberRepository struct {
	collection *mongo.Collection
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{
		collection: db.Collection("members"),
	}
}

// CreateMember inserts a new member into the database.
func (r *MemberRepository) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert member into database")
		return nil, fmt.Errorf("failed to insert member: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}

	member.ID = insertedID

	logrus.WithField("memberID", member.ID.Hex()).Info("Member inserted successfully")
	return member, nil
}

// ErrMemberNotFound lets callers distinguish a missing member from a
// database failure.
var ErrMemberNotFound = errors.New("member not found")

// GetMemberByEmail retrieves a member by email.
func (r *MemberRepository) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member by email: %v", err)
	}
	return &member, nil
}

// GetMemberByID retrieves a member by their ID.
func (r *MemberRepository) GetMemberByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"memberID": id.Hex(),
			"error":    err,
		}).Warn("Failed to find member by ID")
		return nil, fmt.Errorf("failed to find member by id: %v", err)
	}
	return &member, nil
}

// GetMembersByHousehold returns every member of a household.
func (r *MemberRepository) GetMembersByHousehold(ctx context.Context, householdID string) ([]models.Member, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"household_id": householdID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch household members: %v", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode household members: %v", err)
	}
	return members, nil
}

// SetHousehold attaches a member to a household with the given role.
func (r *MemberRepository) SetHousehold(ctx context.Context, memberID primitive.ObjectID, householdID, role string) error {
	update := bson.M{"$set": bson.M{
		"household_id": householdID,
		"role":         role,
		"updated_at":   time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": memberID}, update)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"memberID":    memberID.Hex(),
			"householdID": householdID,
			"error":       err,
		}).Error("Failed to set member household")
		return fmt.Errorf("failed to set member household: %v", err)
	}
	return nil
}

// AddPushToken appends a device token to the member's push token set and
// stamps the update time. $addToSet keeps re-registrations of the same
// device from piling up duplicates.
func (r *MemberRepository) AddPushToken(ctx context.Context, memberID primitive.ObjectID, token string) error {
	now := time.Now()
	update := bson.M{
		"$addToSet": bson.M{"push_tokens": token},
		"$set":      bson.M{"push_token_updated_at": now, "updated_at": now},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": memberID}, update)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"memberID": memberID.Hex(),
			"error":    err,
		}).Error("Failed to add push token")
		return fmt.Errorf("failed to add push token: %v", err)
	}

	logrus.WithField("memberID", memberID.Hex()).Info("Push token registered")
	return nil
}

// GetHouseholdPushTokens collects every non-empty push token across all
// members of a household. The result is the raw fan-out list for
// reminder delivery; no cross-member deduplication is performed.
func (r *MemberRepository) GetHouseholdPushTokens(ctx context.Context, householdID string) ([]string, error) {
	members, err := r.GetMembersByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	var tokens []string
	for _, member := range members {
		for _, token := range member.PushTokens {
			if token != "" {
				tokens = append(tokens, token)
			}
		}
	}
	return tokens, nil
}
