package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/push"
	"github.com/sirupsen/logrus"
)

// ScheduleStore lists every medication schedule across all households.
type ScheduleStore interface {
	GetAllSchedules(ctx context.Context) ([]models.MedicationSchedule, error)
}

// TokenStore resolves a household's push fan-out list.
type TokenStore interface {
	GetHouseholdPushTokens(ctx context.Context, householdID string) ([]string, error)
}

// StatusStore reads dose status and advances the reminder cooldown
// marker. SetLastReminder must be a merge-style partial update.
type StatusStore interface {
	GetStatus(ctx context.Context, householdID, medID string) (*models.MedicationStatus, error)
	SetLastReminder(ctx context.Context, householdID, medID string, at time.Time) error
}

// ReminderEvaluator is the periodic reminder scan. Every run walks all
// medication schedules, decides per slot whether a reminder is due, and
// fans eligible ones out to the household's registered devices.
type ReminderEvaluator struct {
	schedules ScheduleStore
	tokens    TokenStore
	status    StatusStore
	sender    push.Sender
	now       func() time.Time
}

// NewReminderEvaluator creates a new instance of ReminderEvaluator.
func NewReminderEvaluator(schedules ScheduleStore, tokens TokenStore, status StatusStore, sender push.Sender) *ReminderEvaluator {
	return &ReminderEvaluator{
		schedules: schedules,
		tokens:    tokens,
		status:    status,
		sender:    sender,
		now:       time.Now,
	}
}

// Run executes one scan. It never returns an error: every failure is
// logged and either skips the affected schedule or ends the run, and the
// next scheduled tick is the retry path.
func (e *ReminderEvaluator) Run(ctx context.Context) {
	now := e.now()

	schedules, err := e.schedules.GetAllSchedules(ctx)
	if err != nil {
		logrus.WithError(err).Error("Reminder scan: failed to fetch schedules")
		return
	}

	logrus.WithField("schedules", len(schedules)).Info("Reminder scan started")

	// Fan-out lists are cached for the duration of this run so several
	// medications in one household share a single member lookup.
	tokenCache := make(map[string][]string)

	for i := range schedules {
		e.evaluateSchedule(ctx, now, &schedules[i], tokenCache)
	}
}

func (e *ReminderEvaluator) evaluateSchedule(ctx context.Context, now time.Time, sched *models.MedicationSchedule, tokenCache map[string][]string) {
	if sched.HouseholdID == "" || sched.MedID == "" {
		logrus.WithField("medID", sched.MedID).Warn("Schedule has no resolvable household, skipping")
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"householdID": sched.HouseholdID,
		"medID":       sched.MedID,
	})

	tokens, cached := tokenCache[sched.HouseholdID]
	if !cached {
		var err error
		tokens, err = e.tokens.GetHouseholdPushTokens(ctx, sched.HouseholdID)
		if err != nil {
			log.WithError(err).Warn("Failed to fetch push tokens, skipping schedule")
			return
		}
		tokenCache[sched.HouseholdID] = tokens
	}
	if len(tokens) == 0 {
		log.Debug("No push tokens registered for household, skipping")
		return
	}

	status, err := e.status.GetStatus(ctx, sched.HouseholdID, sched.MedID)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch status, skipping schedule")
		return
	}

	loc, err := time.LoadLocation(sched.Timezone)
	if err != nil {
		log.WithError(err).Warn("Invalid schedule timezone, skipping schedule")
		return
	}

	var morningTakenAt, eveningTakenAt, lastReminderAt *time.Time
	if status != nil {
		morningTakenAt = status.MorningTakenAt
		eveningTakenAt = status.EveningTakenAt
		lastReminderAt = status.LastReminderAt
	}

	slots := []struct {
		name    string
		timeStr string
		takenAt *time.Time
	}{
		{models.SlotMorning, sched.MorningTime, morningTakenAt},
		{models.SlotEvening, sched.EveningTime, eveningTakenAt},
	}

	for _, slot := range slots {
		target, err := slotTarget(now, slot.timeStr, loc)
		if err != nil {
			log.WithError(err).WithField("slot", slot.name).Warn("Malformed slot time, skipping slot")
			continue
		}

		check := checkSlot(now, target, sched.ReminderMinutes, slot.takenAt, lastReminderAt, loc)
		if !check.ShouldSend() {
			log.WithFields(logrus.Fields{
				"slot":            slot.name,
				"started":         check.Started,
				"expired":         check.Expired,
				"takenToday":      check.TakenToday,
				"recentlyAlerted": check.RecentlyAlerted,
			}).Debug("Slot not eligible")
			continue
		}

		if !e.sendReminder(ctx, sched, slot.name, tokens) {
			continue
		}

		if err := e.status.SetLastReminder(ctx, sched.HouseholdID, sched.MedID, now); err != nil {
			// A push may have gone out without the cooldown being
			// recorded; worst case is one duplicate on the next tick.
			log.WithError(err).Error("Failed to record reminder time")
		}

		// The cooldown is shared across slots, so a send for this slot
		// also suppresses the other one within this run.
		sentAt := now
		lastReminderAt = &sentAt
	}
}

// sendReminder delivers one slot reminder to the household's devices.
// Returns false on a transport-level failure, in which case the cooldown
// marker is not advanced and the next cycle retries.
func (e *ReminderEvaluator) sendReminder(ctx context.Context, sched *models.MedicationSchedule, slot string, tokens []string) bool {
	msg := push.Message{
		Title: "MadMed",
		Body:  fmt.Sprintf("Time to give the %s medication.", slot),
		Data: map[string]string{
			"medId": sched.MedID,
			"hid":   sched.HouseholdID,
			"link":  "/dashboard",
		},
	}

	result, err := e.sender.SendMulticast(ctx, tokens, msg)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"householdID": sched.HouseholdID,
			"medID":       sched.MedID,
			"slot":        slot,
			"error":       err,
		}).Error("Push delivery failed, will retry next cycle")
		return false
	}

	logrus.WithFields(logrus.Fields{
		"householdID": sched.HouseholdID,
		"medID":       sched.MedID,
		"slot":        slot,
		"success":     result.SuccessCount,
		"failure":     result.FailureCount,
	}).Info("Reminder sent")
	return true
}
