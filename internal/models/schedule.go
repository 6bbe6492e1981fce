package models

import (
	"time"
)

// MedicationSchedule holds the twice-daily dosing times of one medication.
// MedID is the hex id of the medication; there is at most one schedule per
// medication. MorningTime and EveningTime are local "HH:MM" strings
// interpreted in Timezone (an IANA zone name).
type MedicationSchedule struct {
	MedID           string    `bson:"med_id" json:"med_id"`
	HouseholdID     string    `bson:"household_id" json:"household_id"`
	MorningTime     string    `bson:"morning_time" json:"morning_time"`
	EveningTime     string    `bson:"evening_time" json:"evening_time"`
	ReminderMinutes int       `bson:"reminder_minutes" json:"reminder_minutes"`
	Timezone        string    `bson:"timezone" json:"timezone"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
