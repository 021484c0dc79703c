package lifecycle

// Status represents a claim status in the compensation lifecycle
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusPaid        Status = "paid"
	StatusClosed      Status = "closed"
)

var validStatuses = map[Status]bool{
	StatusSubmitted:   true,
	StatusUnderReview: true,
	StatusApproved:    true,
	StatusRejected:    true,
	StatusPaid:        true,
	StatusClosed:      true,
}

var terminalStatuses = map[Status]bool{
	StatusClosed: true,
}

// IsTerminal returns true if the status is a terminal status (no further transitions allowed)
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a valid claim status
func (s Status) IsValid() bool {
	return validStatuses[s]
}
