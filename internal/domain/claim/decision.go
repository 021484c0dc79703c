package claim

// CompensationDecision is the rule engine's verdict for a claim. Decisions are
// produced fresh on every evaluation and superseded, never mutated.
type CompensationDecision struct {
	Amount               float64  `json:"amount"`
	Currency             string   `json:"currency"`
	Regulation           string   `json:"regulation"`
	Rationale            []string `json:"rationale"`
	RequiresManualReview bool     `json:"requires_manual_review"`
}
