package port

import (
	"context"

	"github.com/skyclaim/flight-claims/internal/domain/notification"
)

// NotificationOutbox accepts notification intents for later delivery by an
// external dispatcher. Enqueue failures are logged and swallowed by callers:
// notifications are best-effort, committed transitions are authoritative.
type NotificationOutbox interface {
	Enqueue(ctx context.Context, intents []notification.Intent) error
}
