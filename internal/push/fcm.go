package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// FCMSender delivers messages through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender initializes the Firebase app from a service account
// credentials file and returns a sender backed by its messaging client.
func NewFCMSender(ctx context.Context, credentialsPath string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %v", err)
	}

	return &FCMSender{client: client}, nil
}

// SendMulticast sends one data message to every token in a single
// batched call. Title and body travel in the data payload so the client
// service worker controls presentation; APNS is marked
// content-available so iOS wakes the PWA.
func (s *FCMSender) SendMulticast(ctx context.Context, tokens []string, msg Message) (*BatchResult, error) {
	data := map[string]string{
		"title": msg.Title,
		"body":  msg.Body,
	}
	for k, v := range msg.Data {
		data[k] = v
	}

	multicast := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	resp, err := s.client.SendEachForMulticast(ctx, multicast)
	if err != nil {
		return nil, fmt.Errorf("fcm multicast failed: %v", err)
	}

	if resp.FailureCount > 0 {
		logrus.WithFields(logrus.Fields{
			"success": resp.SuccessCount,
			"failure": resp.FailureCount,
		}).Warn("Some push tokens failed delivery")
	}

	return &BatchResult{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
	}, nil
}
