package candidate

import (
	"strings"
	"time"

	"bridgerh/internal/common"
)

type Status string

const (
	StatusPending            Status = "PENDING"
	StatusReviewing          Status = "REVIEWING"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusRejected           Status = "REJECTED"
	StatusHired              Status = "HIRED"
)

// IsKnownStatus reports whether status is one of the five review states.
// There is no transition graph: any known status may follow any other.
func IsKnownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusReviewing, StatusInterviewScheduled, StatusRejected, StatusHired:
		return true
	default:
		return false
	}
}

func NormalizeStatus(status Status) Status {
	return Status(strings.ToUpper(strings.TrimSpace(string(status))))
}

type Candidate struct {
	ID            common.UUID `json:"id"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Email         string      `json:"email"`
	LinkedinURL   string      `json:"linkedinUrl,omitempty"`
	CVFileName    string      `json:"cvFileName,omitempty"`
	CVURL         string      `json:"cvUrl,omitempty"`
	CVPublicID    string      `json:"cvPublicId,omitempty"`
	Skills        string      `json:"skills"`
	Position      string      `json:"position"`
	Status        Status      `json:"status"`
	Comment       string      `json:"comment,omitempty"`
	InterviewDate *time.Time  `json:"interviewDate,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Submission carries the applicant-owned fields of an intake request.
// Review fields never appear here; they are reachable only through Patch.
type Submission struct {
	FirstName   string
	LastName    string
	Email       string
	LinkedinURL string
	CVFileName  string
	CVURL       string
	CVPublicID  string
	Skills      string
	Position    string
}

// Filters are ANDed; zero values impose no constraint.
type Filters struct {
	Position string
	Status   Status
	Skills   string
}

// Patch holds the reviewer-update fields. Nil pointers mean "leave as is".
// A non-nil ClearInterviewDate with a nil InterviewDate clears the field.
type Patch struct {
	Status             *Status
	Comment            *string
	InterviewDate      *time.Time
	ClearInterviewDate bool
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.Comment == nil && p.InterviewDate == nil && !p.ClearInterviewDate
}
