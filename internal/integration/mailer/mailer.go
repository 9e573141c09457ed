package mailer

import "context"

// CandidateInfo is the slice of a candidacy the notification templates need.
type CandidateInfo struct {
	FirstName string
	LastName  string
	Email     string
	Position  string
	Skills    string
}

// Mailer delivers the two intake notifications. Implementations must be safe
// for concurrent use; callers treat every failure as non-fatal.
type Mailer interface {
	SendCandidateConfirmation(ctx context.Context, info CandidateInfo) error
	SendReviewerAlert(ctx context.Context, info CandidateInfo) error
}
