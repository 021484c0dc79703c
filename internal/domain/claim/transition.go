package claim

import (
	"time"

	"github.com/skyclaim/flight-claims/internal/domain/lifecycle"
)

// StatusTransitionRecord is one entry of a claim's append-only audit trail.
// PreviousStatus is nil only for the record written at claim creation.
type StatusTransitionRecord struct {
	ID             int64             `json:"id"`
	ClaimID        string            `json:"claim_id"`
	PreviousStatus *lifecycle.Status `json:"previous_status"`
	NewStatus      lifecycle.Status  `json:"new_status"`
	Actor          string            `json:"actor"`
	Reason         string            `json:"reason,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
}
