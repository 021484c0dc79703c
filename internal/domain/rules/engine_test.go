package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyclaim/flight-claims/internal/domain/claim"
	"github.com/skyclaim/flight-claims/internal/domain/geo"
)

// stubResolver returns a fixed distance for every pair, or an error when the
// route is marked unknown.
type stubResolver struct {
	distanceKm float64
	unknown    string
}

func (s *stubResolver) Distance(origin, destination string) (float64, error) {
	if origin == s.unknown || destination == s.unknown {
		return 0, &geo.UnknownAirportError{Code: s.unknown}
	}
	return s.distanceKm, nil
}

func facts(category claim.DisruptionCategory, delayMinutes int, tag string) claim.DisruptionFacts {
	departure := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	arrival := departure.Add(2 * time.Hour)

	f := claim.DisruptionFacts{
		ScheduledDeparture: departure,
		ScheduledArrival:   arrival,
		DepartureAirport:   "AAA",
		ArrivalAirport:     "BBB",
		Category:           category,
		CircumstanceTag:    tag,
	}
	if category != claim.CategoryCancellation {
		actual := arrival.Add(time.Duration(delayMinutes) * time.Minute)
		f.ActualArrival = &actual
	}
	return f
}

func TestEvaluate_DistanceTiers(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		want       float64
	}{
		{"short haul at bound", 1500, 250},
		{"medium haul just over short bound", 1500.1, 400},
		{"medium haul at bound", 3500, 400},
		{"long haul just over bound", 3500.1, 600},
		{"long haul", 8000, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(EU261(), &stubResolver{distanceKm: tt.distanceKm})

			// 300 min keeps the long-haul partial rule out of the way.
			decision, err := engine.Evaluate(facts(claim.CategoryDelay, 300, ""))
			require.NoError(t, err)

			assert.Equal(t, tt.want, decision.Amount)
			assert.Equal(t, "EUR", decision.Currency)
			assert.Equal(t, "EU261", decision.Regulation)
			assert.False(t, decision.RequiresManualReview)
		})
	}
}

func TestEvaluate_DelayThreshold(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	below, err := engine.Evaluate(facts(claim.CategoryDelay, 179, ""))
	require.NoError(t, err)
	assert.Equal(t, 0.0, below.Amount)
	assert.False(t, below.RequiresManualReview)
	assert.NotEmpty(t, below.Rationale)

	at, err := engine.Evaluate(facts(claim.CategoryDelay, 180, ""))
	require.NoError(t, err)
	assert.Equal(t, 250.0, at.Amount)
}

func TestEvaluate_EarlyArrival(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	decision, err := engine.Evaluate(facts(claim.CategoryDelay, -10, ""))
	require.NoError(t, err)
	assert.Equal(t, 0.0, decision.Amount)
}

func TestEvaluate_LongHaulPartialRule(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 4000})

	// 200 min on a long-haul route: 600 halved to 300.
	partial, err := engine.Evaluate(facts(claim.CategoryDelay, 200, ""))
	require.NoError(t, err)
	assert.Equal(t, 300.0, partial.Amount)

	// At the ceiling the full amount applies.
	full, err := engine.Evaluate(facts(claim.CategoryDelay, 240, ""))
	require.NoError(t, err)
	assert.Equal(t, 600.0, full.Amount)

	// The partial rule never fires below the long-haul distance.
	engine = NewEngine(EU261(), &stubResolver{distanceKm: 3000})
	short, err := engine.Evaluate(facts(claim.CategoryDelay, 200, ""))
	require.NoError(t, err)
	assert.Equal(t, 400.0, short.Amount)
}

func TestEvaluate_Cancellation(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	decision, err := engine.Evaluate(facts(claim.CategoryCancellation, 0, ""))
	require.NoError(t, err)

	assert.Equal(t, 250.0, decision.Amount)
	assert.False(t, decision.RequiresManualReview)
	assert.Contains(t, decision.Rationale[0], "cancellation")
}

func TestEvaluate_DeniedBoardingIgnoresDelayThreshold(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 2000})

	decision, err := engine.Evaluate(facts(claim.CategoryDeniedBoarding, 0, ""))
	require.NoError(t, err)
	assert.Equal(t, 400.0, decision.Amount)
}

func TestEvaluate_UnknownArrivalDefersToManualReview(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	f := facts(claim.CategoryDelay, 0, "")
	f.ActualArrival = nil

	decision, err := engine.Evaluate(f)
	require.NoError(t, err)

	assert.Equal(t, 0.0, decision.Amount)
	assert.True(t, decision.RequiresManualReview)
	require.Len(t, decision.Rationale, 1)
	assert.Contains(t, decision.Rationale[0], "manual review")
}

func TestEvaluate_ExemptCircumstanceZeroesAmount(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	decision, err := engine.Evaluate(facts(claim.CategoryCancellation, 0, "severe_weather"))
	require.NoError(t, err)

	assert.Equal(t, 0.0, decision.Amount)
	assert.True(t, decision.RequiresManualReview)
	assert.Contains(t, decision.Rationale[len(decision.Rationale)-1], "severe_weather")
}

func TestEvaluate_AirlineLiableCircumstanceKeepsAmount(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	decision, err := engine.Evaluate(facts(claim.CategoryDelay, 240, "technical_failure"))
	require.NoError(t, err)

	assert.Equal(t, 250.0, decision.Amount)
	assert.False(t, decision.RequiresManualReview)
}

func TestEvaluate_ManualOnlyCircumstanceKeepsAmount(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	decision, err := engine.Evaluate(facts(claim.CategoryCancellation, 0, "alternative_flight_offered"))
	require.NoError(t, err)

	assert.Equal(t, 250.0, decision.Amount)
	assert.True(t, decision.RequiresManualReview)
}

func TestEvaluate_UnknownCircumstanceDefersWithAmountIntact(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})

	decision, err := engine.Evaluate(facts(claim.CategoryDelay, 240, "crew_was_grumpy"))
	require.NoError(t, err)

	assert.Equal(t, 250.0, decision.Amount)
	assert.True(t, decision.RequiresManualReview)
}

func TestEvaluate_UnknownAirportFails(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{unknown: "BBB"})

	_, err := engine.Evaluate(facts(claim.CategoryDelay, 240, ""))
	require.Error(t, err)
	assert.ErrorContains(t, err, "BBB")
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	engine := NewEngine(EU261(), &stubResolver{distanceKm: 1000})
	f := facts(claim.CategoryDelay, 240, "")

	first, err := engine.Evaluate(f)
	require.NoError(t, err)
	second, err := engine.Evaluate(f)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifyCircumstance(t *testing.T) {
	tests := []struct {
		tag  string
		want circumstanceKind
	}{
		{"weather", circumstanceExempt},
		{"Severe Weather", circumstanceExempt},
		{"atc-strike", circumstanceExempt},
		{"bird_strike", circumstanceExempt},
		{"technical_failure", circumstanceAirlineLiable},
		{"alternative_flight_offered", circumstanceManualOnly},
		{"something_else", circumstanceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyCircumstance(tt.tag))
		})
	}
}
