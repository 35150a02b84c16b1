package notification

import "context"

// Service delivers push notifications. Delivery is fire-and-forget: callers
// in the hire flow treat failures as best-effort and never roll back on them.
type Service interface {
	Send(ctx context.Context, userID, title, body string, data map[string]string) error
}
