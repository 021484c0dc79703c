package claim

import (
	"time"

	"github.com/skyclaim/flight-claims/internal/domain/lifecycle"
)

// Claim is the aggregate root of a compensation claim. It owns the disruption
// facts, the current status, the latest decision (plus any manual override),
// and the full transition history. Claims are mutated only through the
// workflow coordinator and never physically deleted.
type Claim struct {
	ID             string                    `json:"id"`
	Reference      string                    `json:"reference"`
	Facts          DisruptionFacts           `json:"facts"`
	Status         lifecycle.Status          `json:"status"`
	Decision       *CompensationDecision     `json:"decision,omitempty"`
	OverrideAmount *float64                  `json:"override_amount,omitempty"`
	OverrideReason string                    `json:"override_reason,omitempty"`
	History        []*StatusTransitionRecord `json:"history"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// New creates a claim in status submitted with no decision and records the
// creation as the first history entry (nil previous status).
func New(id, reference, actor string, facts DisruptionFacts, now time.Time) *Claim {
	c := &Claim{
		ID:        id,
		Reference: reference,
		Facts:     facts,
		Status:    lifecycle.StatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.History = append(c.History, &StatusTransitionRecord{
		ClaimID:   id,
		NewStatus: lifecycle.StatusSubmitted,
		Actor:     actor,
		Timestamp: now,
	})

	return c
}

// DisplayAmount returns the amount currently shown for the claim: the manual
// override when present, otherwise the automatic decision amount.
func (c *Claim) DisplayAmount() float64 {
	if c.OverrideAmount != nil {
		return *c.OverrideAmount
	}
	if c.Decision != nil {
		return c.Decision.Amount
	}
	return 0
}

// SetDecision stores a fresh rule-engine decision. The automatic decision is
// kept even after a manual override so reviewers can audit both.
func (c *Claim) SetDecision(decision CompensationDecision) {
	c.Decision = &decision
}

// Override replaces the displayed amount with a manually determined one. The
// automatic decision, if any, is left intact. A rationale is mandatory.
func (c *Claim) Override(amount float64, reason string) error {
	if reason == "" {
		return &lifecycle.MissingReasonError{Target: c.Status}
	}
	c.OverrideAmount = &amount
	c.OverrideReason = reason
	return nil
}

// Transition validates the requested status change against the table and, on
// success, appends exactly one audit record and updates the status. The record
// and the status change are a single in-memory mutation; persistence commits
// them as one unit. On failure the claim is left untouched.
func (c *Claim) Transition(table lifecycle.TransitionTable, target lifecycle.Status, actor, reason string, hasOverride bool, now time.Time) (*StatusTransitionRecord, error) {
	if err := lifecycle.Authorize(table, c.Status, target, reason, hasOverride); err != nil {
		return nil, err
	}

	// History timestamps must be non-decreasing even if the wall clock skews.
	if last := c.lastRecord(); last != nil && now.Before(last.Timestamp) {
		now = last.Timestamp
	}

	previous := c.Status
	record := &StatusTransitionRecord{
		ClaimID:        c.ID,
		PreviousStatus: &previous,
		NewStatus:      target,
		Actor:          actor,
		Reason:         reason,
		Timestamp:      now,
	}

	c.Status = target
	c.History = append(c.History, record)
	c.UpdatedAt = now

	return record, nil
}

func (c *Claim) lastRecord() *StatusTransitionRecord {
	if len(c.History) == 0 {
		return nil
	}
	return c.History[len(c.History)-1]
}
