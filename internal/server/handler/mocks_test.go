package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"grading_service/internal/domain"
	"grading_service/internal/service"
)

type mockIngestion struct {
	mock.Mock
}

func (m *mockIngestion) Ingest(ctx context.Context, assignmentID uuid.UUID, studentName string, file *service.Upload) (uuid.UUID, error) {
	args := m.Called(ctx, assignmentID, studentName, file)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockIngestion) IngestMany(ctx context.Context, assignmentID uuid.UUID, files []*service.Upload) ([]uuid.UUID, error) {
	args := m.Called(ctx, assignmentID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockSubmissions struct {
	mock.Mock
}

func (m *mockSubmissions) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *mockSubmissions) FinalizeSubmission(ctx context.Context, id uuid.UUID, finalGrade string) error {
	return m.Called(ctx, id, finalGrade).Error(0)
}

func (m *mockSubmissions) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAssignments struct {
	mock.Mock
}

func (m *mockAssignments) CreateAssignment(ctx context.Context, in *service.CreateAssignmentInput) (*domain.Assignment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *mockAssignments) GetAssignment(ctx context.Context, id uuid.UUID) (*domain.AssignmentDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssignmentDetails), args.Error(1)
}

func (m *mockAssignments) ListAssignments(ctx context.Context) ([]*domain.AssignmentDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AssignmentDetails), args.Error(1)
}

func (m *mockAssignments) UpdateAssignment(ctx context.Context, id uuid.UUID, in *service.UpdateAssignmentInput) (*domain.Assignment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *mockAssignments) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockRubrics struct {
	mock.Mock
}

func (m *mockRubrics) ListRubrics(ctx context.Context) ([]*domain.Rubric, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rubric), args.Error(1)
}

func (m *mockRubrics) CreateRubric(ctx context.Context, name, body string) (*domain.Rubric, error) {
	args := m.Called(ctx, name, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rubric), args.Error(1)
}

func (m *mockRubrics) DeleteRubric(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockPins struct {
	mock.Mock
}

func (m *mockPins) CreatePin(ctx context.Context, assignmentID uuid.UUID, pinCode string, classID *int64) (*domain.Pin, error) {
	args := m.Called(ctx, assignmentID, pinCode, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pin), args.Error(1)
}

func (m *mockPins) GetPin(ctx context.Context, pinCode string) (*domain.Pin, error) {
	args := m.Called(ctx, pinCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pin), args.Error(1)
}
