package service

import (
	"time"

	"github.com/google/uuid"
)

const EventSubmissionGraded = "submission.graded"

type SubmissionGradedEvent struct {
	Type         string    `json:"type"`
	SubmissionID uuid.UUID `json:"submission_id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	StudentName  string    `json:"student_name"`
	AIGrade      string    `json:"ai_grade"`
	Pending      bool      `json:"pending"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type AssignmentDueEvent struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	Name         string    `json:"name"`
	OwnerEmail   string    `json:"owner_email,omitempty"`
	DueDate      time.Time `json:"due_date"`
}
