package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/madmed-app/madmed-server/internal/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleStore struct {
	schedules []models.MedicationSchedule
	err       error
}

func (f *fakeScheduleStore) GetAllSchedules(ctx context.Context) ([]models.MedicationSchedule, error) {
	return f.schedules, f.err
}

type fakeTokenStore struct {
	tokens map[string][]string
	errs   map[string]error
	calls  map[string]int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		tokens: make(map[string][]string),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeTokenStore) GetHouseholdPushTokens(ctx context.Context, householdID string) ([]string, error) {
	f.calls[householdID]++
	if err := f.errs[householdID]; err != nil {
		return nil, err
	}
	return f.tokens[householdID], nil
}

type fakeStatusStore struct {
	statuses      map[string]*models.MedicationStatus
	getErr        error
	setErr        error
	lastReminders map[string][]time.Time
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{
		statuses:      make(map[string]*models.MedicationStatus),
		lastReminders: make(map[string][]time.Time),
	}
}

func statusKey(householdID, medID string) string { return householdID + "/" + medID }

func (f *fakeStatusStore) GetStatus(ctx context.Context, householdID, medID string) (*models.MedicationStatus, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.statuses[statusKey(householdID, medID)], nil
}

func (f *fakeStatusStore) SetLastReminder(ctx context.Context, householdID, medID string, at time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.lastReminders[statusKey(householdID, medID)] = append(f.lastReminders[statusKey(householdID, medID)], at)
	return nil
}

type sentMessage struct {
	tokens []string
	msg    push.Message
}

type fakeSender struct {
	err  error
	sent []sentMessage
}

func (f *fakeSender) SendMulticast(ctx context.Context, tokens []string, msg push.Message) (*push.BatchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentMessage{tokens: tokens, msg: msg})
	return &push.BatchResult{SuccessCount: len(tokens)}, nil
}

func testSchedule(householdID, medID string) models.MedicationSchedule {
	return models.MedicationSchedule{
		MedID:           medID,
		HouseholdID:     householdID,
		MorningTime:     "07:30",
		EveningTime:     "19:30",
		ReminderMinutes: 15,
		Timezone:        "America/Vancouver",
	}
}

func newTestEvaluator(schedules *fakeScheduleStore, tokens *fakeTokenStore, status *fakeStatusStore, sender *fakeSender, now time.Time) *ReminderEvaluator {
	e := NewReminderEvaluator(schedules, tokens, status, sender)
	e.now = func() time.Time { return now }
	return e
}

func TestEvaluatorSendsDueMorningReminder(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:20")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{testSchedule("HH1", "med1")}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"A"}, sender.sent[0].tokens)
	assert.Equal(t, "MadMed", sender.sent[0].msg.Title)
	assert.Equal(t, map[string]string{
		"medId": "med1",
		"hid":   "HH1",
		"link":  "/dashboard",
	}, sender.sent[0].msg.Data)

	require.Len(t, status.lastReminders[statusKey("HH1", "med1")], 1)
	assert.Equal(t, now, status.lastReminders[statusKey("HH1", "med1")][0])
}

func TestEvaluatorCooldownSuppressesResend(t *testing.T) {
	loc := vancouver(t)
	sentAt := localTime(t, loc, "2026-06-15 07:20")
	now := sentAt.Add(5 * time.Minute)

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{testSchedule("HH1", "med1")}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	status.statuses[statusKey("HH1", "med1")] = &models.MedicationStatus{
		MedID:          "med1",
		HouseholdID:    "HH1",
		LastReminderAt: &sentAt,
	}
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	assert.Empty(t, sender.sent)
	assert.Empty(t, status.lastReminders)
}

func TestEvaluatorExpiredWindowNotSent(t *testing.T) {
	loc := vancouver(t)
	// Morning window closed at 09:30; evening has not started.
	now := localTime(t, loc, "2026-06-15 09:35")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{testSchedule("HH1", "med1")}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	assert.Empty(t, sender.sent)
}

func TestEvaluatorTakenTodayNotSent(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:35")
	takenAt := localTime(t, loc, "2026-06-15 07:05")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{testSchedule("HH1", "med1")}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	status.statuses[statusKey("HH1", "med1")] = &models.MedicationStatus{
		MedID:          "med1",
		HouseholdID:    "HH1",
		MorningTakenAt: &takenAt,
	}
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	assert.Empty(t, sender.sent)
}

func TestEvaluatorNoTokensShortCircuits(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:20")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{testSchedule("HH1", "med1")}}
	tokens := newFakeTokenStore() // no tokens registered
	status := newFakeStatusStore()
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	assert.Empty(t, sender.sent)
	assert.Empty(t, status.lastReminders)
}

func TestEvaluatorMalformedScheduleDoesNotStopScan(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:20")

	orphan := testSchedule("", "orphan") // no resolvable household
	badTZ := testSchedule("HH2", "medX")
	badTZ.Timezone = "Not/AZone"
	healthy := testSchedule("HH1", "med1")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{orphan, badTZ, healthy}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	tokens.tokens["HH2"] = []string{"B"}
	status := newFakeStatusStore()
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "med1", sender.sent[0].msg.Data["medId"])
}

func TestEvaluatorTokenStoreFailureIsolatedPerHousehold(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:20")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{
		testSchedule("HH1", "med1"),
		testSchedule("HH2", "med2"),
	}}
	tokens := newFakeTokenStore()
	tokens.errs["HH1"] = errors.New("member query failed")
	tokens.tokens["HH2"] = []string{"B"}
	status := newFakeStatusStore()
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "med2", sender.sent[0].msg.Data["medId"])
}

func TestEvaluatorCachesTokensPerHousehold(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:20")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{
		testSchedule("HH1", "med1"),
		testSchedule("HH1", "med2"),
		testSchedule("HH1", "med3"),
	}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	assert.Equal(t, 1, tokens.calls["HH1"])
	assert.Len(t, sender.sent, 3)
}

func TestEvaluatorTransportFailureLeavesCooldownUntouched(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:20")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{testSchedule("HH1", "med1")}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	sender := &fakeSender{err: errors.New("gateway unreachable")}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	// Next tick retries because last_reminder_at never advanced.
	assert.Empty(t, status.lastReminders)
}

func TestEvaluatorSharedCooldownAcrossSlotsInOneRun(t *testing.T) {
	loc := vancouver(t)
	// Degenerate schedule where both slot windows overlap right now.
	sched := testSchedule("HH1", "med1")
	sched.MorningTime = "07:30"
	sched.EveningTime = "07:45"
	now := localTime(t, loc, "2026-06-15 07:40")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{sched}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	// Only the morning slot fires; the shared cooldown suppresses the
	// evening slot in the same run.
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].msg.Body, "morning")
	assert.Len(t, status.lastReminders[statusKey("HH1", "med1")], 1)
}

func TestEvaluatorScheduleFetchFailureEndsRunCleanly(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 07:20")

	schedules := &fakeScheduleStore{err: errors.New("store down")}
	tokens := newFakeTokenStore()
	status := newFakeStatusStore()
	sender := &fakeSender{}

	assert.NotPanics(t, func() {
		newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())
	})
	assert.Empty(t, sender.sent)
}

func TestEvaluatorEligibleAgainAfterDailyReset(t *testing.T) {
	loc := vancouver(t)

	// Yesterday a reminder went out and the dose was marked taken.
	yesterdayReminder := localTime(t, loc, "2026-06-14 07:20")
	now := localTime(t, loc, "2026-06-15 07:20")

	schedules := &fakeScheduleStore{schedules: []models.MedicationSchedule{testSchedule("HH1", "med1")}}
	tokens := newFakeTokenStore()
	tokens.tokens["HH1"] = []string{"A"}
	status := newFakeStatusStore()
	// After the resetter ran at midnight: taken markers cleared,
	// last_reminder_at preserved.
	status.statuses[statusKey("HH1", "med1")] = &models.MedicationStatus{
		MedID:          "med1",
		HouseholdID:    "HH1",
		LastReminderAt: &yesterdayReminder,
	}
	sender := &fakeSender{}

	newTestEvaluator(schedules, tokens, status, sender, now).Run(context.Background())

	require.Len(t, sender.sent, 1)
}
