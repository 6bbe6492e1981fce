package jobs

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ResetStore clears taken markers across every status record in one
// bulk operation.
type ResetStore interface {
	ResetAllTakenMarkers(ctx context.Context) (int64, error)
}

// StatusResetter runs once a day at midnight in the deployment's
// reference timezone and clears every medication's taken markers so the
// next day's doses become eligible again. Reminder cooldown markers are
// left alone.
type StatusResetter struct {
	status ResetStore
}

// NewStatusResetter creates a new instance of StatusResetter.
func NewStatusResetter(status ResetStore) *StatusResetter {
	return &StatusResetter{status: status}
}

// Run executes one daily reset. On failure nothing is cleared and the
// next day's run is the retry path.
func (r *StatusResetter) Run(ctx context.Context) {
	count, err := r.status.ResetAllTakenMarkers(ctx)
	if err != nil {
		logrus.WithError(err).Error("Daily status reset failed")
		return
	}

	logrus.WithField("records", count).Info("Daily status reset completed")
}
