package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/extract"
	"grading_service/internal/grader"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	List(ctx context.Context) ([]*domain.Assignment, error)
	Update(ctx context.Context, id uuid.UUID, patch *domain.AssignmentPatch) (*domain.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRubric(ctx context.Context, rubricID uuid.UUID) (int, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Assignment, error)
}

type RubricRepository interface {
	Create(ctx context.Context, rubric *domain.Rubric) (*domain.Rubric, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rubric, error)
	List(ctx context.Context) ([]*domain.Rubric, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	ListByAssignments(ctx context.Context, assignmentIDs []uuid.UUID) ([]*domain.Submission, error)
	SetFinalGrade(ctx context.Context, id uuid.UUID, grade string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PinRepository interface {
	Create(ctx context.Context, pin *domain.Pin) (*domain.Pin, error)
	GetByCode(ctx context.Context, code string) (*domain.Pin, error)
}

type TextExtractor interface {
	Extract(data []byte, format domain.FileFormat) extract.Result
}

type Grader interface {
	Grade(ctx context.Context, submissionText, rubricText string) grader.Outcome
}

// EventPublisher is satisfied by pkg/kafka publishers.
type EventPublisher interface {
	Send(ctx context.Context, topic, key string, message interface{}) error
}
