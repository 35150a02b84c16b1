package notification

import (
	"context"
	"fmt"

	"taskly/utils"

	"firebase.google.com/go/v4/messaging"
)

// FCMSender delivers pushes through Firebase Cloud Messaging. Each user is
// subscribed to their own topic by the mobile client, so no token lookup is
// needed here.
type FCMSender struct{}

// Send publishes the push to the user's FCM topic.
func (s *FCMSender) Send(ctx context.Context, userID, title, body string, data map[string]string) error {
	if utils.FCMClient == nil {
		return fmt.Errorf("fcm client not initialized")
	}
	if data == nil {
		data = map[string]string{}
	}

	msg := &messaging.Message{
		Topic: "user_" + userID,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
