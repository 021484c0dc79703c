package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/skyclaim/flight-claims/internal/domain/notification"
	"github.com/skyclaim/flight-claims/pkg/database"
)

// Outbox row statuses; the external dispatcher marks rows as it drains them.
const (
	OutboxStatusPending = "PENDING"
	OutboxStatusSent    = "SENT"
	OutboxStatusFailed  = "FAILED"
)

// NotificationOutboxRepository stores notification intents durably for an
// external dispatcher to deliver. The core only ever enqueues.
type NotificationOutboxRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewNotificationOutboxRepository creates a new outbox repository
func NewNotificationOutboxRepository(db *database.DB, logger *zap.Logger) *NotificationOutboxRepository {
	return &NotificationOutboxRepository{
		db:     db,
		logger: logger,
	}
}

// Enqueue persists the intents with status PENDING.
func (r *NotificationOutboxRepository) Enqueue(ctx context.Context, intents []notification.Intent) error {
	if len(intents) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO notification_outbox (
				kind, claim_id, new_status, amount, reason, status
			) VALUES (?, ?, ?, ?, ?, ?)
		`

		for _, intent := range intents {
			var amount interface{}
			if intent.Amount != nil {
				amount = *intent.Amount
			}

			_, err := tx.ExecContext(ctx, query,
				string(intent.Kind), intent.ClaimID, intent.NewState.String(),
				amount, intent.Reason, OutboxStatusPending,
			)
			if err != nil {
				r.logger.Error("Failed to enqueue intent",
					zap.String("kind", string(intent.Kind)),
					zap.String("claim_id", intent.ClaimID),
					zap.Error(err))
				return fmt.Errorf("enqueue intent: %w", err)
			}
		}

		return nil
	})
}
