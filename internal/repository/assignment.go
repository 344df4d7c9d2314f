package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
)

const assignmentColumns = `id, name, rubric, rubric_id, owner_email, due_date, created_at`

type AssignmentRepository struct {
	db Querier
}

func NewAssignmentRepository(db Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	query := `
INSERT INTO assignments (id, name, rubric, rubric_id, owner_email, due_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + assignmentColumns

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}

	var created domain.Assignment
	err = pgxscan.Get(ctx, r.db, &created, query,
		id,
		assignment.Name,
		assignment.Rubric,
		assignment.RubricID,
		assignment.OwnerEmail,
		assignment.DueDate,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &created, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	var assignment domain.Assignment
	if err := pgxscan.Get(ctx, r.db, &assignment, query, id); err != nil {
		return nil, handleError(err)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) List(ctx context.Context) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments ORDER BY created_at DESC`

	var assignments []*domain.Assignment
	if err := pgxscan.Select(ctx, r.db, &assignments, query); err != nil {
		return nil, handleError(err)
	}
	return assignments, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, id uuid.UUID, patch *domain.AssignmentPatch) (*domain.Assignment, error) {
	query, args, err := buildAssignmentUpdateQuery(patch)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	var assignment domain.Assignment
	if err := pgxscan.Get(ctx, r.db, &assignment, query, args...); err != nil {
		return nil, handleError(err)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}

// CountByRubric returns how many assignments reference the rubric.
func (r *AssignmentRepository) CountByRubric(ctx context.Context, rubricID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM assignments WHERE rubric_id = $1`, rubricID).Scan(&count)
	if err != nil {
		return 0, handleError(err)
	}
	return count, nil
}

// FindDueBetween returns assignments with from < due_date <= to.
func (r *AssignmentRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Assignment, error) {
	query := `
SELECT ` + assignmentColumns + `
FROM assignments
WHERE due_date > $1 AND due_date <= $2
ORDER BY due_date`

	var assignments []*domain.Assignment
	if err := pgxscan.Select(ctx, r.db, &assignments, query, from.UTC(), to.UTC()); err != nil {
		return nil, handleError(err)
	}
	return assignments, nil
}

func buildAssignmentUpdateQuery(patch *domain.AssignmentPatch) (string, []any, error) {
	var set []string
	var args []any
	argIdx := 1

	if patch.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *patch.Name)
		argIdx++
	}
	if patch.Rubric != nil {
		set = append(set, fmt.Sprintf("rubric = $%d", argIdx))
		args = append(args, *patch.Rubric)
		argIdx++
	}
	switch {
	case patch.ClearRubricID:
		set = append(set, "rubric_id = NULL")
	case patch.RubricID != nil:
		set = append(set, fmt.Sprintf("rubric_id = $%d", argIdx))
		args = append(args, *patch.RubricID)
		argIdx++
	}
	switch {
	case patch.ClearDueDate:
		set = append(set, "due_date = NULL")
	case patch.DueDate != nil:
		set = append(set, fmt.Sprintf("due_date = $%d", argIdx))
		args = append(args, *patch.DueDate)
		argIdx++
	}

	if len(set) == 0 {
		return "", nil, ErrNoFieldsToUpdate
	}

	query := fmt.Sprintf(`
UPDATE assignments
SET %s
WHERE id = $%d
RETURNING `+assignmentColumns,
		strings.Join(set, ", "),
		argIdx,
	)
	return query, args, nil
}
