package cron

import (
	"context"
	"fmt"

	"github.com/madmed-app/madmed-server/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReminderCronJobs registers and starts the two background jobs:
// the reminder scan every five minutes, and the daily status reset at
// midnight in the deployment's reference timezone. The reset runs on a
// single global timezone regardless of each schedule's own timezone,
// matching the product's current behavior.
func StartReminderCronJobs(evaluator *jobs.ReminderEvaluator, resetter *jobs.StatusResetter, resetTimezone string) error {
	c := cron.New()

	// Reminder scan every 5 minutes
	_, err := c.AddFunc("*/5 * * * *", func() {
		evaluator.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register reminder scan: %v", err)
	}

	// Daily taken-marker reset at reference-timezone midnight
	_, err = c.AddFunc(fmt.Sprintf("CRON_TZ=%s 0 0 * * *", resetTimezone), func() {
		resetter.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register daily reset: %v", err)
	}

	c.Start()

	logrus.WithField("resetTimezone", resetTimezone).Info("Reminder cron jobs started")
	return nil
}
