package port

import (
	"context"
	"errors"

	"github.com/skyclaim/flight-claims/internal/domain/claim"
	"github.com/skyclaim/flight-claims/internal/domain/geo"
	"github.com/skyclaim/flight-claims/internal/domain/lifecycle"
)

var (
	// ErrClaimNotFound is returned when no claim exists for the given identity
	ErrClaimNotFound = errors.New("claim not found")

	// ErrConcurrentModification is returned when the atomic write observed a
	// stale prior status. The caller must re-read and retry, never overwrite.
	ErrConcurrentModification = errors.New("claim modified concurrently")
)

// ClaimRepository defines persistence operations for the Claim aggregate.
type ClaimRepository interface {
	// Create persists a new claim together with its creation history record.
	Create(ctx context.Context, c *claim.Claim) error

	// GetByID loads a claim with its full transition history.
	GetByID(ctx context.Context, id string) (*claim.Claim, error)

	// GetByReference loads a claim by its client-supplied reference.
	GetByReference(ctx context.Context, reference string) (*claim.Claim, error)

	// List returns claims ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*claim.Claim, error)

	// AppendTransition persists the claim's new status, decision and override
	// fields plus the given transition record as one atomic unit. The update
	// is guarded on expectedStatus: if the stored status differs, nothing is
	// written and ErrConcurrentModification is returned.
	AppendTransition(ctx context.Context, c *claim.Claim, record *claim.StatusTransitionRecord, expectedStatus lifecycle.Status) error
}

// AirportRepository lists the airport coordinate reference table.
type AirportRepository interface {
	ListCoordinates(ctx context.Context) ([]geo.Coordinate, error)
}
