package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skyclaim/flight-claims/internal/application/port"
	"github.com/skyclaim/flight-claims/internal/domain/claim"
	"github.com/skyclaim/flight-claims/internal/domain/lifecycle"
	"github.com/skyclaim/flight-claims/internal/domain/notification"
	"github.com/skyclaim/flight-claims/internal/domain/rules"
	"github.com/skyclaim/flight-claims/pkg/metrics"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SubmitClaimRequest carries the inputs for creating a claim. Facts supplied
// by upstream systems (e.g. document extraction) get no elevated trust and are
// validated identically regardless of origin.
type SubmitClaimRequest struct {
	Reference string
	Actor     string
	Facts     claim.DisruptionFacts
}

// AdvanceClaimRequest carries a requested status transition.
type AdvanceClaimRequest struct {
	ClaimID        string
	Target         lifecycle.Status
	Actor          string
	Reason         string
	AmountOverride *float64
}

// ClaimService coordinates claim creation and lifecycle progression: it
// resolves distance, runs the rule engine, applies overrides, performs the
// status transition, and describes the notifications to send. It never sends
// notifications itself.
type ClaimService interface {
	Submit(ctx context.Context, req SubmitClaimRequest) (*claim.Claim, []notification.Intent, error)
	Advance(ctx context.Context, req AdvanceClaimRequest) (*claim.Claim, []notification.Intent, error)
	Get(ctx context.Context, id string) (*claim.Claim, error)
	List(ctx context.Context, limit, offset int) ([]*claim.Claim, error)
}

type claimServiceImpl struct {
	claims  port.ClaimRepository
	engine  *rules.Engine
	table   lifecycle.TransitionTable
	outbox  port.NotificationOutbox
	metrics *metrics.Metrics
	logger  Logger

	now   func() time.Time
	newID func() string
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claims port.ClaimRepository,
	engine *rules.Engine,
	outbox port.NotificationOutbox,
	m *metrics.Metrics,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		claims:  claims,
		engine:  engine,
		table:   lifecycle.NewClaimTransitionTable(),
		outbox:  outbox,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Submit creates a claim in status submitted with no pricing yet.
func (s *claimServiceImpl) Submit(ctx context.Context, req SubmitClaimRequest) (*claim.Claim, []notification.Intent, error) {
	if err := req.Facts.Validate(); err != nil {
		return nil, nil, err
	}

	// Resubmitting the same reference returns the existing claim (idempotency)
	if req.Reference != "" {
		existing, err := s.claims.GetByReference(ctx, req.Reference)
		if err == nil && existing != nil {
			s.logger.Info("Claim already exists", "reference", req.Reference, "id", existing.ID)
			return existing, nil, nil
		}
	}

	c := claim.New(s.newID(), req.Reference, req.Actor, req.Facts, s.now().UTC())

	if err := s.claims.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create claim", "error", err, "reference", req.Reference)
		return nil, nil, err
	}

	s.metrics.ClaimsSubmitted.Inc()

	intents := []notification.Intent{{
		Kind:     notification.KindClaimSubmitted,
		ClaimID:  c.ID,
		NewState: c.Status,
	}}
	s.enqueue(ctx, intents)

	s.logger.Info("Claim submitted", "id", c.ID, "reference", req.Reference,
		"route", c.Facts.DepartureAirport+"-"+c.Facts.ArrivalAirport)
	return c, intents, nil
}

// Advance is the sole entry point for changing a claim after submission. On a
// transition to under_review it runs the rule engine and stores the decision;
// a manual override replaces the displayed amount but never erases the
// automatic decision. The status change and audit record are persisted as one
// atomic unit guarded on the prior status.
func (s *claimServiceImpl) Advance(ctx context.Context, req AdvanceClaimRequest) (*claim.Claim, []notification.Intent, error) {
	c, err := s.claims.GetByID(ctx, req.ClaimID)
	if err != nil {
		return nil, nil, err
	}

	if req.Target == lifecycle.StatusUnderReview {
		decision, err := s.engine.Evaluate(c.Facts)
		if err != nil {
			// Unresolvable airport: the claim stays put, flagged for
			// manual distance entry by the caller.
			s.metrics.RejectedOps.WithLabelValues("unknown_airport").Inc()
			s.logger.Error("Cannot price claim", "id", c.ID, "error", err)
			return nil, nil, err
		}

		c.SetDecision(decision)
		s.metrics.Decisions.WithLabelValues(decision.Regulation).Inc()
		if decision.RequiresManualReview {
			s.metrics.ManualReviews.Inc()
		}
	}

	hasOverride := req.AmountOverride != nil
	if hasOverride {
		if err := c.Override(*req.AmountOverride, req.Reason); err != nil {
			s.metrics.RejectedOps.WithLabelValues("missing_reason").Inc()
			return nil, nil, err
		}
	}

	record, err := c.Transition(s.table, req.Target, req.Actor, req.Reason, hasOverride, s.now().UTC())
	if err != nil {
		s.metrics.RejectedOps.WithLabelValues("invalid_transition").Inc()
		return nil, nil, err
	}

	if err := s.claims.AppendTransition(ctx, c, record, *record.PreviousStatus); err != nil {
		s.logger.Error("Failed to persist transition", "id", c.ID,
			"target", req.Target, "error", err)
		return nil, nil, err
	}

	s.metrics.Transitions.WithLabelValues(req.Target.String()).Inc()

	intents := s.buildIntents(c, req.Reason)
	s.enqueue(ctx, intents)

	s.logger.Info("Claim advanced", "id", c.ID,
		"from", record.PreviousStatus.String(), "to", record.NewStatus.String(),
		"actor", req.Actor)
	return c, intents, nil
}

// Get retrieves a claim with its full transition history.
func (s *claimServiceImpl) Get(ctx context.Context, id string) (*claim.Claim, error) {
	c, err := s.claims.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get claim", "error", err, "id", id)
		return nil, err
	}
	return c, nil
}

// List retrieves a paginated list of claims.
func (s *claimServiceImpl) List(ctx context.Context, limit, offset int) ([]*claim.Claim, error) {
	claims, err := s.claims.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list claims", "error", err, "limit", limit, "offset", offset)
		return nil, err
	}
	return claims, nil
}

func (s *claimServiceImpl) buildIntents(c *claim.Claim, reason string) []notification.Intent {
	amount := c.DisplayAmount()

	intents := []notification.Intent{{
		Kind:     notification.KindStatusChanged,
		ClaimID:  c.ID,
		NewState: c.Status,
		Amount:   &amount,
		Reason:   reason,
	}}

	if c.Status == lifecycle.StatusUnderReview && c.Decision != nil && c.Decision.RequiresManualReview {
		intents = append(intents, notification.Intent{
			Kind:     notification.KindManualReviewRequired,
			ClaimID:  c.ID,
			NewState: c.Status,
			Amount:   &amount,
		})
	}

	return intents
}

// enqueue hands intents to the outbox. Failures are logged and dropped: the
// transition is already committed and must not be rolled back for a
// notification problem.
func (s *claimServiceImpl) enqueue(ctx context.Context, intents []notification.Intent) {
	if len(intents) == 0 {
		return
	}
	if err := s.outbox.Enqueue(ctx, intents); err != nil {
		s.logger.Error("Failed to enqueue notification intents", "error", err)
	}
}
