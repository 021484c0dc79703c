package rules

import "fmt"

// Tier maps a great-circle distance bracket to a fixed compensation amount.
// MaxDistanceKm is the inclusive upper bound of the bracket; zero means the
// bracket is unbounded.
type Tier struct {
	MaxDistanceKm float64
	Amount        float64
}

// RegulationProfile parameterizes the rule engine for one jurisdiction. Other
// regulations plug in their own tier tables using the same shape.
type RegulationProfile struct {
	ID       string
	Currency string

	// Tiers ordered by ascending distance bound, last entry unbounded.
	Tiers []Tier

	// CompensableDelayMinutes is the minimum arrival delay for delays and
	// baggage delays to be compensable at all.
	CompensableDelayMinutes int

	// LongHaulDistanceKm is the distance above which the partial rule can
	// apply: delays of at least CompensableDelayMinutes but below
	// PartialDelayCeilingMinutes pay half the tier amount.
	LongHaulDistanceKm         float64
	PartialDelayCeilingMinutes int
}

// EU261 returns the profile for Regulation (EC) No 261/2004.
func EU261() RegulationProfile {
	return RegulationProfile{
		ID:       "EU261",
		Currency: "EUR",
		Tiers: []Tier{
			{MaxDistanceKm: 1500, Amount: 250},
			{MaxDistanceKm: 3500, Amount: 400},
			{Amount: 600},
		},
		CompensableDelayMinutes:    180,
		LongHaulDistanceKm:         3500,
		PartialDelayCeilingMinutes: 240,
	}
}

// ProfileByID resolves a configured regulation profile identifier.
func ProfileByID(id string) (RegulationProfile, error) {
	switch id {
	case "", "EU261":
		return EU261(), nil
	default:
		return RegulationProfile{}, fmt.Errorf("unknown regulation profile %q", id)
	}
}

// tierFor returns the amount for the given distance.
func (p RegulationProfile) tierFor(distanceKm float64) float64 {
	for _, t := range p.Tiers {
		if t.MaxDistanceKm == 0 || distanceKm <= t.MaxDistanceKm {
			return t.Amount
		}
	}
	return 0
}
