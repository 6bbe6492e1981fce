package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/madmed-app/madmed-server/internal/models"
	"github.com/stretchr/testify/assert"
)

// fakeResetStore mimics the bulk reset the status collection performs:
// clear both taken markers everywhere, leave cooldown markers alone.
type fakeResetStore struct {
	records map[string]*models.MedicationStatus
	err     error
	runs    int
}

func (f *fakeResetStore) ResetAllTakenMarkers(ctx context.Context) (int64, error) {
	f.runs++
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, rec := range f.records {
		if rec.MorningTakenAt != nil || rec.EveningTakenAt != nil {
			count++
		}
		rec.MorningTakenAt = nil
		rec.EveningTakenAt = nil
	}
	return count, nil
}

func TestResetterClearsTakenMarkersOnly(t *testing.T) {
	taken := time.Date(2026, 6, 15, 7, 40, 0, 0, time.UTC)
	reminded := time.Date(2026, 6, 15, 7, 20, 0, 0, time.UTC)

	store := &fakeResetStore{records: map[string]*models.MedicationStatus{
		"HH1/med1": {MedID: "med1", MorningTakenAt: &taken, EveningTakenAt: &taken, LastReminderAt: &reminded},
		"HH2/med2": {MedID: "med2", EveningTakenAt: &taken},
	}}

	NewStatusResetter(store).Run(context.Background())

	for _, rec := range store.records {
		assert.Nil(t, rec.MorningTakenAt)
		assert.Nil(t, rec.EveningTakenAt)
	}
	assert.Equal(t, &reminded, store.records["HH1/med1"].LastReminderAt)
}

func TestResetterIsIdempotent(t *testing.T) {
	taken := time.Date(2026, 6, 15, 19, 40, 0, 0, time.UTC)
	store := &fakeResetStore{records: map[string]*models.MedicationStatus{
		"HH1/med1": {MedID: "med1", MorningTakenAt: &taken},
	}}

	resetter := NewStatusResetter(store)
	resetter.Run(context.Background())
	resetter.Run(context.Background())

	assert.Equal(t, 2, store.runs)
	assert.Nil(t, store.records["HH1/med1"].MorningTakenAt)
	assert.Nil(t, store.records["HH1/med1"].EveningTakenAt)
}

func TestResetterFailureDoesNotPanic(t *testing.T) {
	store := &fakeResetStore{err: errors.New("batch write failed")}

	assert.NotPanics(t, func() {
		NewStatusResetter(store).Run(context.Background())
	})
}
