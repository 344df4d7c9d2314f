package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"grading_service/internal/domain"
	"grading_service/internal/grader"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	args := m.Called(ctx, assignment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) List(ctx context.Context) ([]*domain.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, id uuid.UUID, patch *domain.AssignmentPatch) (*domain.Assignment, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepository) CountByRubric(ctx context.Context, rubricID uuid.UUID) (int, error) {
	args := m.Called(ctx, rubricID)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Assignment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Assignment), args.Error(1)
}

type MockRubricRepository struct {
	mock.Mock
}

func (m *MockRubricRepository) Create(ctx context.Context, rubric *domain.Rubric) (*domain.Rubric, error) {
	args := m.Called(ctx, rubric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rubric), args.Error(1)
}

func (m *MockRubricRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rubric, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rubric), args.Error(1)
}

func (m *MockRubricRepository) List(ctx context.Context) ([]*domain.Rubric, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rubric), args.Error(1)
}

func (m *MockRubricRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSubmissionRepository assigns ids on Create like the real store.
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	args := m.Called(ctx, submission)
	if args.Error(0) == nil && submission.ID == uuid.Nil {
		submission.ID = uuid.New()
		submission.CreatedAt = time.Now().UTC()
	}
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByAssignments(ctx context.Context, assignmentIDs []uuid.UUID) ([]*domain.Submission, error) {
	args := m.Called(ctx, assignmentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) SetFinalGrade(ctx context.Context, id uuid.UUID, grade string) error {
	args := m.Called(ctx, id, grade)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPinRepository struct {
	mock.Mock
}

func (m *MockPinRepository) Create(ctx context.Context, pin *domain.Pin) (*domain.Pin, error) {
	args := m.Called(ctx, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pin), args.Error(1)
}

func (m *MockPinRepository) GetByCode(ctx context.Context, code string) (*domain.Pin, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pin), args.Error(1)
}

type MockGrader struct {
	mock.Mock
}

func (m *MockGrader) Grade(ctx context.Context, submissionText, rubricText string) grader.Outcome {
	args := m.Called(ctx, submissionText, rubricText)
	return args.Get(0).(grader.Outcome)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Send(ctx context.Context, topic, key string, message interface{}) error {
	args := m.Called(ctx, topic, key, message)
	return args.Error(0)
}
