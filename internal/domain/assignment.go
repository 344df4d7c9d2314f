package domain

import (
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	ID         uuid.UUID  `db:"id"`
	Name       string     `db:"name"`
	Rubric     *string    `db:"rubric"`
	RubricID   *uuid.UUID `db:"rubric_id"`
	OwnerEmail *string    `db:"owner_email"`
	DueDate    *time.Time `db:"due_date"`
	CreatedAt  time.Time  `db:"created_at"`
}

// HasRubric reports whether the assignment carries inline rubric text or a rubric reference.
func (a *Assignment) HasRubric() bool {
	return (a.Rubric != nil && *a.Rubric != "") || a.RubricID != nil
}

// AssignmentPatch holds a partial update. A nil field is left untouched;
// Clear* flags reset the optional column to NULL.
type AssignmentPatch struct {
	Name          *string
	Rubric        *string
	RubricID      *uuid.UUID
	ClearRubricID bool
	DueDate       *time.Time
	ClearDueDate  bool
}

type AssignmentDetails struct {
	Assignment
	Submissions []*Submission
}
