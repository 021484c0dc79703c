package claim

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFacts is returned when submitted disruption facts are not
// internally consistent enough to accept a claim.
var ErrInvalidFacts = errors.New("invalid disruption facts")

// DisruptionCategory classifies the kind of flight disruption being claimed
type DisruptionCategory string

const (
	CategoryDelay          DisruptionCategory = "delay"
	CategoryCancellation   DisruptionCategory = "cancellation"
	CategoryDeniedBoarding DisruptionCategory = "denied_boarding"
	CategoryBaggageDelay   DisruptionCategory = "baggage_delay"
)

var validCategories = map[DisruptionCategory]bool{
	CategoryDelay:          true,
	CategoryCancellation:   true,
	CategoryDeniedBoarding: true,
	CategoryBaggageDelay:   true,
}

// IsValid returns true if the category is a known disruption category
func (c DisruptionCategory) IsValid() bool {
	return validCategories[c]
}

// String returns the string representation of the category
func (c DisruptionCategory) String() string {
	return string(c)
}

// DisruptionFacts holds the flight disruption facts a claim is priced from.
// Actual times are nil when unknown or when the flight never operated.
type DisruptionFacts struct {
	ScheduledDeparture time.Time          `json:"scheduled_departure"`
	ScheduledArrival   time.Time          `json:"scheduled_arrival"`
	ActualDeparture    *time.Time         `json:"actual_departure,omitempty"`
	ActualArrival      *time.Time         `json:"actual_arrival,omitempty"`
	DepartureAirport   string             `json:"departure_airport"`
	ArrivalAirport     string             `json:"arrival_airport"`
	Category           DisruptionCategory `json:"category"`
	CircumstanceTag    string             `json:"circumstance_tag,omitempty"`
}

// Validate checks the facts are internally consistent enough to accept a claim.
// Pricing-level gaps (e.g. unknown actual arrival) are not errors here; the
// rule engine encodes those as manual-review decisions.
func (f DisruptionFacts) Validate() error {
	if !f.Category.IsValid() {
		return fmt.Errorf("%w: unknown disruption category %q", ErrInvalidFacts, f.Category)
	}
	if f.DepartureAirport == "" || f.ArrivalAirport == "" {
		return fmt.Errorf("%w: departure and arrival airports are required", ErrInvalidFacts)
	}
	if f.ScheduledDeparture.IsZero() || f.ScheduledArrival.IsZero() {
		return fmt.Errorf("%w: scheduled departure and arrival are required", ErrInvalidFacts)
	}
	if f.ScheduledArrival.Before(f.ScheduledDeparture) {
		return fmt.Errorf("%w: scheduled arrival precedes scheduled departure", ErrInvalidFacts)
	}
	return nil
}

// DelayMinutes returns actual minus scheduled arrival in whole minutes and
// whether the delay could be derived at all.
func (f DisruptionFacts) DelayMinutes() (int, bool) {
	if f.ActualArrival == nil {
		return 0, false
	}
	return int(f.ActualArrival.Sub(f.ScheduledArrival).Minutes()), true
}
