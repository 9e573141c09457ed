package mailer

import "context"

// Noop is the mailer used when no SendGrid credentials are configured.
type Noop struct{}

func (Noop) SendCandidateConfirmation(ctx context.Context, info CandidateInfo) error {
	return nil
}

func (Noop) SendReviewerAlert(ctx context.Context, info CandidateInfo) error {
	return nil
}
