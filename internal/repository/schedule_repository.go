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

// ScheduleRepository handles database operations related to medication
// schedules. Schedules live in a single collection carrying a
// household_id field, so the reminder job can scan every household's
// schedules with one query instead of per-household round trips.
type ScheduleRepository struct {
	collection *mongo.Collection
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{
		collection: db.Collection("schedules"),
	}
}

// UpsertSchedule creates or replaces the schedule of a medication.
func (r *ScheduleRepository) UpsertSchedule(ctx context.Context, schedule *models.MedicationSchedule) error {
	schedule.UpdatedAt = time.Now()

	filter := bson.M{"med_id": schedule.MedID, "household_id": schedule.HouseholdID}
	update := bson.M{"$set": schedule}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"medID":       schedule.MedID,
			"householdID": schedule.HouseholdID,
			"error":       err,
		}).Error("Failed to upsert schedule")
		return fmt.Errorf("failed to upsert schedule: %v", err)
	}

	logrus.WithField("medID", schedule.MedID).Info("Schedule saved successfully")
	return nil
}

// GetSchedule retrieves the schedule of one medication. Returns
// (nil, nil) when no schedule has been set.
func (r *ScheduleRepository) GetSchedule(ctx context.Context, householdID, medID string) (*models.MedicationSchedule, error) {
	var schedule models.MedicationSchedule
	filter := bson.M{"med_id": medID, "household_id": householdID}
	err := r.collection.FindOne(ctx, filter).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find schedule: %v", err)
	}
	return &schedule, nil
}

// GetAllSchedules returns every medication schedule across all
// households in one cross-tenant scan.
func (r *ScheduleRepository) GetAllSchedules(ctx context.Context) ([]models.MedicationSchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %v", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.MedicationSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %v", err)
	}
	return schedules, nil
}
