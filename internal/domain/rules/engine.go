package rules

import (
	"fmt"

	"github.com/skyclaim/flight-claims/internal/domain/claim"
)

// DistanceResolver resolves the great-circle distance in kilometers between
// two airport codes.
type DistanceResolver interface {
	Distance(origin, destination string) (float64, error)
}

// Cancellations occupy the highest delay tier regardless of any rebooking.
const cancellationDelayMinutes = 1 << 20

// Engine computes compensation decisions under a single regulation profile.
// Evaluation is pure and deterministic: identical facts always produce an
// identical decision, and the only lookup is the airport distance.
type Engine struct {
	profile  RegulationProfile
	distance DistanceResolver
}

// NewEngine creates a rule engine for the given regulation profile.
func NewEngine(profile RegulationProfile, distance DistanceResolver) *Engine {
	return &Engine{
		profile:  profile,
		distance: distance,
	}
}

// Profile returns the regulation profile the engine evaluates under.
func (e *Engine) Profile() RegulationProfile {
	return e.profile
}

// Evaluate prices the disruption. The returned rationale lists every rule that
// fired, in evaluation order; that list is what a reviewer audits. The only
// error case is an unresolvable airport code, which means the claim cannot be
// priced automatically.
func (e *Engine) Evaluate(facts claim.DisruptionFacts) (claim.CompensationDecision, error) {
	decision := claim.CompensationDecision{
		Currency:   e.profile.Currency,
		Regulation: e.profile.ID,
	}

	// Without an actual arrival the delay cannot be derived. Cancellations
	// are the exception: the flight never arrived by definition.
	delayMinutes, known := facts.DelayMinutes()
	if !known && facts.Category != claim.CategoryCancellation {
		decision.RequiresManualReview = true
		decision.Rationale = append(decision.Rationale,
			"actual arrival time unknown; delay cannot be derived, deferring to manual review")
		return decision, nil
	}

	if facts.Category == claim.CategoryCancellation {
		delayMinutes = cancellationDelayMinutes
		decision.Rationale = append(decision.Rationale,
			"cancellation treated as maximal delay")
	}

	if delayMinutes < e.profile.CompensableDelayMinutes &&
		facts.Category != claim.CategoryCancellation &&
		facts.Category != claim.CategoryDeniedBoarding {
		decision.Rationale = append(decision.Rationale,
			fmt.Sprintf("delay of %d min is below compensable threshold of %d min",
				delayMinutes, e.profile.CompensableDelayMinutes))
		return decision, nil
	}

	distanceKm, err := e.distance.Distance(facts.DepartureAirport, facts.ArrivalAirport)
	if err != nil {
		return claim.CompensationDecision{}, err
	}

	amount := e.profile.tierFor(distanceKm)
	decision.Rationale = append(decision.Rationale,
		fmt.Sprintf("distance %.1f km, delay %s: base amount %.2f %s under %s",
			distanceKm, formatDelay(delayMinutes, facts.Category), amount,
			e.profile.Currency, e.profile.ID))

	// Long-haul partial rule: arriving less than the ceiling late on a
	// long-haul route halves the tier amount.
	if distanceKm > e.profile.LongHaulDistanceKm &&
		delayMinutes >= e.profile.CompensableDelayMinutes &&
		delayMinutes < e.profile.PartialDelayCeilingMinutes {
		amount = amount / 2
		decision.Rationale = append(decision.Rationale,
			fmt.Sprintf("long-haul delay below %d min: amount halved to %.2f %s",
				e.profile.PartialDelayCeilingMinutes, amount, e.profile.Currency))
	}

	if facts.CircumstanceTag != "" {
		switch classifyCircumstance(facts.CircumstanceTag) {
		case circumstanceExempt:
			amount = 0
			decision.RequiresManualReview = true
			decision.Rationale = append(decision.Rationale,
				fmt.Sprintf("extraordinary circumstance (%s): weather/ATC exemption applies, compensation zeroed pending manual review",
					facts.CircumstanceTag))
		case circumstanceAirlineLiable:
			decision.Rationale = append(decision.Rationale,
				fmt.Sprintf("circumstance (%s) is within airline control: no exemption",
					facts.CircumstanceTag))
		case circumstanceManualOnly:
			decision.RequiresManualReview = true
			decision.Rationale = append(decision.Rationale,
				fmt.Sprintf("circumstance (%s): regulation specifies no formula, deferring to manual review",
					facts.CircumstanceTag))
		case circumstanceUnknown:
			decision.RequiresManualReview = true
			decision.Rationale = append(decision.Rationale,
				fmt.Sprintf("unrecognized circumstance tag (%s): deferring to manual review",
					facts.CircumstanceTag))
		}
	}

	decision.Amount = amount
	return decision, nil
}

func formatDelay(delayMinutes int, category claim.DisruptionCategory) string {
	if category == claim.CategoryCancellation {
		return "cancellation"
	}
	return fmt.Sprintf("%d min", delayMinutes)
}
