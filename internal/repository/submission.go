package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
)

const submissionColumns = `id, assignment_id, student_name, file_path, ai_feedback, ai_grade, final_grade, created_at`

type SubmissionRepository struct {
	db Querier
}

func NewSubmissionRepository(db Querier) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a graded submission in a single statement and fills in its
// id and creation time.
func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	query := `
INSERT INTO submissions (id, assignment_id, student_name, file_path, ai_feedback, ai_grade, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}
	now := time.Now().UTC()

	_, err = r.db.Exec(ctx, query,
		id,
		submission.AssignmentID,
		submission.StudentName,
		submission.FilePath,
		submission.AIFeedback,
		submission.AIGrade,
		now,
	)
	if err != nil {
		return handleError(err)
	}

	submission.ID = id
	submission.CreatedAt = now
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	var submission domain.Submission
	if err := pgxscan.Get(ctx, r.db, &submission, query, id); err != nil {
		return nil, handleError(err)
	}
	return &submission, nil
}

// ListByAssignments returns the submissions of all given assignments in
// creation order.
func (r *SubmissionRepository) ListByAssignments(ctx context.Context, assignmentIDs []uuid.UUID) ([]*domain.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	query := `
SELECT ` + submissionColumns + `
FROM submissions
WHERE assignment_id = ANY($1)
ORDER BY created_at, id`

	var submissions []*domain.Submission
	if err := pgxscan.Select(ctx, r.db, &submissions, query, assignmentIDs); err != nil {
		return nil, handleError(err)
	}
	return submissions, nil
}

func (r *SubmissionRepository) SetFinalGrade(ctx context.Context, id uuid.UUID, grade string) error {
	tag, err := r.db.Exec(ctx, `UPDATE submissions SET final_grade = $1 WHERE id = $2`, grade, id)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
