package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bridgerh/internal/common"
	"bridgerh/internal/domain/candidate"
)

const candidateColumns = `id, first_name, last_name, email, linkedin_url, cv_file_name, cv_url, cv_public_id, skills, position, status, comment, interview_date, created_at, updated_at`

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) UpsertByEmail(ctx context.Context, sub candidate.Submission) (*candidate.Candidate, error) {
	id := common.NewUUID()
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `INSERT INTO candidates (id, first_name, last_name, email, linkedin_url, cv_file_name, cv_url, cv_public_id, skills, position, status, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '', $12, $13)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			linkedin_url = EXCLUDED.linkedin_url,
			cv_file_name = EXCLUDED.cv_file_name,
			cv_url = EXCLUDED.cv_url,
			cv_public_id = EXCLUDED.cv_public_id,
			skills = EXCLUDED.skills,
			position = EXCLUDED.position,
			updated_at = EXCLUDED.updated_at
		RETURNING `+candidateColumns,
		id, sub.FirstName, sub.LastName, sub.Email, sub.LinkedinURL, sub.CVFileName, sub.CVURL, sub.CVPublicID, sub.Skills, sub.Position, candidate.StatusPending, now, now)
	c, err := scanCandidate(row)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to save candidate", err)
	}
	return c, nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id common.UUID) (*candidate.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "candidate not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load candidate", err)
	}
	return c, nil
}

func (r *CandidateRepository) List(ctx context.Context, filters candidate.Filters) ([]candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	var conditions []string
	var args []interface{}
	if filters.Position != "" {
		args = append(args, "%"+filters.Position+"%")
		conditions = append(conditions, fmt.Sprintf("position ILIKE $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Skills != "" {
		args = append(args, "%"+filters.Skills+"%")
		conditions = append(conditions, fmt.Sprintf("skills ILIKE $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list candidates", err)
	}
	defer rows.Close()
	items := []candidate.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan candidate", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list candidates", err)
	}
	return items, nil
}

func (r *CandidateRepository) Update(ctx context.Context, id common.UUID, patch candidate.Patch) (*candidate.Candidate, error) {
	var assignments []string
	var args []interface{}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		assignments = append(assignments, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.Comment != nil {
		args = append(args, *patch.Comment)
		assignments = append(assignments, fmt.Sprintf("comment = $%d", len(args)))
	}
	if patch.InterviewDate != nil {
		args = append(args, patch.InterviewDate.UTC())
		assignments = append(assignments, fmt.Sprintf("interview_date = $%d", len(args)))
	} else if patch.ClearInterviewDate {
		assignments = append(assignments, "interview_date = NULL")
	}
	args = append(args, time.Now().UTC())
	assignments = append(assignments, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE candidates SET %s WHERE id = $%d", strings.Join(assignments, ", "), len(args))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update candidate", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "candidate not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(row rowScanner) (*candidate.Candidate, error) {
	var c candidate.Candidate
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.LinkedinURL, &c.CVFileName, &c.CVURL, &c.CVPublicID, &c.Skills, &c.Position, &c.Status, &c.Comment, &c.InterviewDate, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = candidate.NormalizeStatus(c.Status)
	return &c, nil
}
