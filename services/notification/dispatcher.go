package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"taskly/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypePushSend is the asynq task type for queued push deliveries.
const TypePushSend = "push:send"

// AsynqDispatcher queues pushes onto the redis-backed worker instead of
// delivering inline, so slow or failing delivery never blocks the hire flow.
type AsynqDispatcher struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewAsynqDispatcher returns a Service that enqueues deliveries.
func NewAsynqDispatcher(client *asynq.Client, logger *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client, Logger: logger}
}

// Send enqueues a push payload for background delivery.
func (d *AsynqDispatcher) Send(ctx context.Context, userID, title, body string, data map[string]string) error {
	payload := models.PushPayload{
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	task := asynq.NewTask(TypePushSend, raw)
	if _, err := d.Client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		d.Logger.Warn("failed to enqueue push notification",
			zap.String("userID", userID), zap.Error(err))
		return err
	}
	return nil
}
