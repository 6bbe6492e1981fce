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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusRepository handles database operations related to medication
// dose status. Like schedules, status records live in one collection
// with a household_id field so both jobs can scan them cross-tenant.
type StatusRepository struct {
	collection *mongo.Collection
}

// NewStatusRepository creates a new instance of StatusRepository.
func NewStatusRepository(db *mongo.Database) *StatusRepository {
	return &StatusRepository{
		collection: db.Collection("status"),
	}
}

// GetStatus retrieves the status record of one medication. Returns
// (nil, nil) when no record exists yet; callers treat that as
// "not taken, never reminded".
func (r *StatusRepository) GetStatus(ctx context.Context, householdID, medID string) (*models.MedicationStatus, error) {
	var status models.MedicationStatus
	filter := bson.M{"med_id": medID, "household_id": householdID}
	err := r.collection.FindOne(ctx, filter).Decode(&status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find status: %v", err)
	}
	return &status, nil
}

// MarkTaken merge-writes one slot's taken timestamp, creating the status
// record if it does not exist yet.
func (r *StatusRepository) MarkTaken(ctx context.Context, householdID, medID, slot string, at time.Time) error {
	field := "morning_taken_at"
	if slot == models.SlotEvening {
		field = "evening_taken_at"
	}

	filter := bson.M{"med_id": medID, "household_id": householdID}
	update := bson.M{"$set": bson.M{field: at}}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"medID": medID,
			"slot":  slot,
			"error": err,
		}).Error("Failed to mark dose taken")
		return fmt.Errorf("failed to mark dose taken: %v", err)
	}
	return nil
}

// ResetStatus clears both taken timestamps of one medication,
// leaving last_reminder_at alone.
func (r *StatusRepository) ResetStatus(ctx context.Context, householdID, medID string) error {
	filter := bson.M{"med_id": medID, "household_id": householdID}
	update := bson.M{"$set": bson.M{"morning_taken_at": nil, "evening_taken_at": nil}}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to reset status: %v", err)
	}
	return nil
}

// SetLastReminder merge-writes last_reminder_at on an existing status
// record. It deliberately does not upsert: the reminder job never
// creates status records, only advances the cooldown marker on ones the
// CRUD layer created.
func (r *StatusRepository) SetLastReminder(ctx context.Context, householdID, medID string, at time.Time) error {
	filter := bson.M{"med_id": medID, "household_id": householdID}
	update := bson.M{"$set": bson.M{"last_reminder_at": at}}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"medID": medID,
			"error": err,
		}).Error("Failed to record reminder time")
		return fmt.Errorf("failed to record reminder time: %v", err)
	}
	return nil
}

// ResetAllTakenMarkers clears the morning and evening taken timestamps
// on every status record across all households in a single bulk update.
// last_reminder_at is left untouched.
func (r *StatusRepository) ResetAllTakenMarkers(ctx context.Context) (int64, error) {
	update := bson.M{"$set": bson.M{"morning_taken_at": nil, "evening_taken_at": nil}}

	result, err := r.collection.UpdateMany(ctx, bson.M{}, update)
	if err != nil {
		return 0, fmt.Errorf("failed to reset taken markers: %v", err)
	}
	return result.ModifiedCount, nil
}
