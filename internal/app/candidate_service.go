package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bridgerh/internal/common"
	"bridgerh/internal/domain/candidate"
	"bridgerh/internal/integration/mailer"
	"bridgerh/internal/integration/storage"
)

const mailRetryDelay = 500 * time.Millisecond

type CandidateService struct {
	repo          candidate.Repository
	mail          mailer.Mailer
	files         storage.Uploader
	logger        *slog.Logger
	collabTimeout time.Duration
}

func NewCandidateService(repo candidate.Repository, mail mailer.Mailer, files storage.Uploader, logger *slog.Logger, collabTimeout time.Duration) *CandidateService {
	return &CandidateService{
		repo:          repo,
		mail:          mail,
		files:         files,
		logger:        logger,
		collabTimeout: collabTimeout,
	}
}

type SubmitInput struct {
	FirstName   string
	LastName    string
	Email       string
	LinkedinURL string
	Skills      string
	Position    string
	CVFileName  string
	CVData      []byte
}

// Submit validates and persists an intake submission. A résumé upload or
// notification failure never fails the submission itself.
func (s *CandidateService) Submit(ctx context.Context, input SubmitInput) (*candidate.Candidate, error) {
	fields := map[string]string{}
	required := map[string]string{
		"firstName": input.FirstName,
		"lastName":  input.LastName,
		"email":     input.Email,
		"skills":    input.Skills,
		"position":  input.Position,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[name] = name + " is required"
		}
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("all required fields must be filled", fields)
	}

	sub := candidate.Submission{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		LinkedinURL: strings.TrimSpace(input.LinkedinURL),
		Skills:      strings.TrimSpace(input.Skills),
		Position:    strings.TrimSpace(input.Position),
	}

	if input.CVFileName != "" && len(input.CVData) > 0 {
		uploadCtx, cancel := context.WithTimeout(ctx, s.collabTimeout)
		result, err := s.files.Upload(uploadCtx, input.CVFileName, input.CVData)
		cancel()
		if err != nil {
			// Best effort: keep the original filename so reviewers at least
			// see that a résumé was attached.
			s.logger.Warn("resume upload failed, storing filename only", "file", input.CVFileName, "error", err)
			sub.CVFileName = input.CVFileName
		} else {
			sub.CVFileName = result.FileName
			sub.CVURL = result.URL
			sub.CVPublicID = result.PublicID
		}
	} else if input.CVFileName != "" {
		sub.CVFileName = input.CVFileName
	}

	created, err := s.repo.UpsertByEmail(ctx, sub)
	if err != nil {
		return nil, err
	}

	info := mailer.CandidateInfo{
		FirstName: created.FirstName,
		LastName:  created.LastName,
		Email:     created.Email,
		Position:  created.Position,
		Skills:    created.Skills,
	}
	s.notify(ctx, "candidate confirmation", func(ctx context.Context) error {
		return s.mail.SendCandidateConfirmation(ctx, info)
	})
	s.notify(ctx, "reviewer alert", func(ctx context.Context) error {
		return s.mail.SendReviewerAlert(ctx, info)
	})

	return created, nil
}

// notify runs a mail send with a bounded timeout and a single retry.
// Failures are logged and swallowed.
func (s *CandidateService) notify(ctx context.Context, name string, send func(context.Context) error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(mailRetryDelay)
		}
		sendCtx, cancel := context.WithTimeout(ctx, s.collabTimeout)
		lastErr = send(sendCtx)
		cancel()
		if lastErr == nil {
			return
		}
	}
	s.logger.Warn("notification send failed", "mail", name, "error", lastErr)
}

func (s *CandidateService) List(ctx context.Context, filters candidate.Filters) ([]candidate.Candidate, error) {
	if filters.Status != "" {
		filters.Status = candidate.NormalizeStatus(filters.Status)
		if !candidate.IsKnownStatus(filters.Status) {
			return nil, common.NewValidationError("invalid status filter", map[string]string{"status": "unknown status"})
		}
	}
	return s.repo.List(ctx, filters)
}

func (s *CandidateService) Get(ctx context.Context, id common.UUID) (*candidate.Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateReview applies a partial patch of the review fields. Fields absent
// from the patch keep their current value.
func (s *CandidateService) UpdateReview(ctx context.Context, id common.UUID, patch candidate.Patch) (*candidate.Candidate, error) {
	if patch.Status != nil {
		normalized := candidate.NormalizeStatus(*patch.Status)
		if !candidate.IsKnownStatus(normalized) {
			return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be PENDING, REVIEWING, INTERVIEW_SCHEDULED, REJECTED, or HIRED"})
		}
		patch.Status = &normalized
	}
	return s.repo.Update(ctx, id, patch)
}
