package lifecycle

// NewClaimTransitionTable builds the transition table governing the claim
// lifecycle. This is the single source of truth for transition legality:
//
//	submitted    -> under_review
//	under_review -> approved | rejected
//	approved     -> paid
//	paid         -> closed
//	rejected     -> closed
func NewClaimTransitionTable() TransitionTable {
	builder := NewTableBuilder()

	builder.Configure(StatusSubmitted).
		Permit(StatusUnderReview)

	builder.Configure(StatusUnderReview).
		Permit(StatusApproved).
		Permit(StatusRejected)

	builder.Configure(StatusApproved).
		Permit(StatusPaid)

	builder.Configure(StatusPaid).
		Permit(StatusClosed)

	builder.Configure(StatusRejected).
		Permit(StatusClosed)

	// closed is terminal - no outgoing transitions

	return builder.Build()
}

// Authorize validates a requested transition against the table and the reason
// rule: a transition to rejected, or one carrying an amount override, must
// state a non-empty reason. It has no side effects.
func Authorize(table TransitionTable, from, to Status, reason string, hasOverride bool) error {
	if !to.IsValid() {
		return &InvalidTransitionError{From: from, To: to}
	}

	if !table.CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}

	if (to == StatusRejected || hasOverride) && reason == "" {
		return &MissingReasonError{Target: to}
	}

	return nil
}
