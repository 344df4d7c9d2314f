package domain

import (
	"time"

	"github.com/google/uuid"
)

// GradePending marks a submission whose AI grading did not produce a numeric grade.
const GradePending = "Pending"

// UnknownStudent is used when a bulk upload filename carries no student name.
const UnknownStudent = "Unknown Student"

type Submission struct {
	ID           uuid.UUID `db:"id"`
	AssignmentID uuid.UUID `db:"assignment_id"`
	StudentName  string    `db:"student_name"`
	FilePath     string    `db:"file_path"`
	AIFeedback   *string   `db:"ai_feedback"`
	AIGrade      string    `db:"ai_grade"`
	FinalGrade   *string   `db:"final_grade"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *Submission) IsPending() bool {
	return s.AIGrade == GradePending
}
