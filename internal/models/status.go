package models

import (
	"time"
)

// MedicationStatus tracks today's dose state for one medication,
// co-keyed with its schedule by medication id. A nil taken field means
// that slot has not been marked taken this cycle. LastReminderAt is the
// instant of the last reminder sent for this medication, shared by both
// slots (the reminder cooldown is per medication, not per slot).
type MedicationStatus struct {
	MedID          string     `bson:"med_id" json:"med_id"`
	HouseholdID    string     `bson:"household_id" json:"household_id"`
	MorningTakenAt *time.Time `bson:"morning_taken_at" json:"morning_taken_at"`
	EveningTakenAt *time.Time `bson:"evening_taken_at" json:"evening_taken_at"`
	LastReminderAt *time.Time `bson:"last_reminder_at,omitempty" json:"last_reminder_at,omitempty"`
}

// Dose slots of a daily schedule.
const (
	SlotMorning = "morning"
	SlotEvening = "evening"
)
