package notification

import "github.com/skyclaim/flight-claims/internal/domain/lifecycle"

// Kind identifies the notification template the external dispatcher renders.
type Kind string

const (
	KindClaimSubmitted       Kind = "claim_submitted"
	KindStatusChanged        Kind = "status_changed"
	KindManualReviewRequired Kind = "manual_review_required"
)

// Intent describes a notification the coordinator wants sent. Intents are
// inert data: the core only describes deliveries, it never performs them, so
// tests can assert intent production independent of delivery. A dispatcher
// failure must never roll back the transition that produced the intent.
type Intent struct {
	Kind     Kind             `json:"kind"`
	ClaimID  string           `json:"claim_id"`
	NewState lifecycle.Status `json:"new_state"`
	Amount   *float64         `json:"amount,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}
