package candidate

import (
	"context"

	"bridgerh/internal/common"
)

type Repository interface {
	// UpsertByEmail creates a candidate, or overwrites the applicant fields
	// of the record already holding the same email. Review fields, id and
	// created_at survive a resubmission.
	UpsertByEmail(ctx context.Context, sub Submission) (*Candidate, error)
	GetByID(ctx context.Context, id common.UUID) (*Candidate, error)
	List(ctx context.Context, filters Filters) ([]Candidate, error)
	Update(ctx context.Context, id common.UUID, patch Patch) (*Candidate, error)
}
