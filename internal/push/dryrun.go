package push

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DryRunSender logs instead of delivering. Used for local runs without
// FCM credentials.
type DryRunSender struct{}

func (DryRunSender) SendMulticast(ctx context.Context, tokens []string, msg Message) (*BatchResult, error) {
	logrus.WithFields(logrus.Fields{
		"tokens": len(tokens),
		"title":  msg.Title,
		"body":   msg.Body,
	}).Info("Dry-run push (not delivered)")
	return &BatchResult{SuccessCount: len(tokens)}, nil
}
