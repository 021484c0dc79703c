package rules

import "strings"

// circumstanceKind is the outcome of classifying a free-text
// extraordinary-circumstance tag.
type circumstanceKind int

const (
	// circumstanceExempt matches the weather/ATC taxonomy: compensation is
	// zeroed and the decision is flagged for manual review.
	circumstanceExempt circumstanceKind = iota

	// circumstanceAirlineLiable covers disruptions within airline control
	// (technical failure): the amount is unchanged.
	circumstanceAirlineLiable

	// circumstanceManualOnly leaves the amount unchanged but always requires
	// a human decision (e.g. an alternative flight was offered).
	circumstanceManualOnly

	// circumstanceUnknown is any tag outside the curated sets. The classifier
	// never guesses a reduction: the amount stands and a human reviews it.
	circumstanceUnknown
)

// Weather and air-traffic-control taxonomy recognized as extraordinary
// circumstances under the regulation.
var exemptTags = map[string]bool{
	"weather":                  true,
	"severe_weather":           true,
	"storm":                    true,
	"lightning_strike":         true,
	"snow":                     true,
	"heavy_snow":               true,
	"fog":                      true,
	"volcanic_ash":             true,
	"atc_strike":               true,
	"air_traffic_control":      true,
	"atc_restriction":          true,
	"airport_closure":          true,
	"security_alert":           true,
	"bird_strike":              true,
}

// Disruptions within the airline's control carry full liability.
var airlineLiableTags = map[string]bool{
	"technical_failure": true,
	"technical_fault":   true,
	"technical":         true,
}

// Tags the regulation mentions without specifying a formula; deferred to a
// reviewer rather than inventing a reduction.
var manualOnlyTags = map[string]bool{
	"alternative_flight_offered": true,
}

// classifyCircumstance matches a tag against the curated taxonomy. Matching is
// exact after normalization; anything else is unknown.
func classifyCircumstance(tag string) circumstanceKind {
	normalized := normalizeTag(tag)

	switch {
	case exemptTags[normalized]:
		return circumstanceExempt
	case airlineLiableTags[normalized]:
		return circumstanceAirlineLiable
	case manualOnlyTags[normalized]:
		return circumstanceManualOnly
	default:
		return circumstanceUnknown
	}
}

func normalizeTag(tag string) string {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}
