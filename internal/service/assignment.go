package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
	"grading_service/pkg/ctxdata"
)

// CreateAssignmentInput is a new assignment as submitted by a professor.
// RubricFile is read for rubric text when Rubric is empty.
type CreateAssignmentInput struct {
	Name       string
	Rubric     string
	RubricID   *uuid.UUID
	DueDate    string
	RubricFile *Upload
}

// UpdateAssignmentInput holds a partial update. A nil field is left unchanged;
// an empty RubricID or DueDate clears the column.
type UpdateAssignmentInput struct {
	Name     *string
	Rubric   *string
	RubricID *string
	DueDate  *string
}

type AssignmentServiceInterface interface {
	CreateAssignment(ctx context.Context, in *CreateAssignmentInput) (*domain.Assignment, error)
	GetAssignment(ctx context.Context, id uuid.UUID) (*domain.AssignmentDetails, error)
	ListAssignments(ctx context.Context) ([]*domain.AssignmentDetails, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, in *UpdateAssignmentInput) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
}

type AssignmentService struct {
	assignmentRepo AssignmentRepository
	submissionRepo SubmissionRepository
	extractor      TextExtractor
}

func NewAssignmentService(
	assignmentRepo AssignmentRepository,
	submissionRepo SubmissionRepository,
	extractor TextExtractor,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		extractor:      extractor,
	}
}

func (s *AssignmentService) CreateAssignment(ctx context.Context, in *CreateAssignmentInput) (*domain.Assignment, error) {
	name := strings.TrimSpace(in.Name)
	rubric := strings.TrimSpace(in.Rubric)
	if rubric == "" && in.RubricFile != nil && s.extractor != nil {
		rubric = s.rubricFromUpload(in.RubricFile)
	}

	if name == "" || (rubric == "" && in.RubricID == nil) {
		return nil, fmt.Errorf("name and either rubric (text/file) or rubric_id are required: %w", errdefs.ErrValidation)
	}

	dueDate, err := ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	assignment := &domain.Assignment{
		Name:     name,
		RubricID: in.RubricID,
		DueDate:  dueDate,
	}
	if rubric != "" {
		assignment.Rubric = &rubric
	}
	if email, ok := ctxdata.GetUserEmail(ctx); ok {
		assignment.OwnerEmail = &email
	}

	return s.assignmentRepo.Create(ctx, assignment)
}

func (s *AssignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*domain.AssignmentDetails, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.ListByAssignments(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	return &domain.AssignmentDetails{Assignment: *assignment, Submissions: submissions}, nil
}

// ListAssignments returns all assignments, newest first, each with its submissions.
func (s *AssignmentService) ListAssignments(ctx context.Context) ([]*domain.AssignmentDetails, error) {
	assignments, err := s.assignmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}

	submissions, err := s.submissionRepo.ListByAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}

	byAssignment := make(map[uuid.UUID][]*domain.Submission, len(assignments))
	for _, sub := range submissions {
		byAssignment[sub.AssignmentID] = append(byAssignment[sub.AssignmentID], sub)
	}

	result := make([]*domain.AssignmentDetails, 0, len(assignments))
	for _, a := range assignments {
		subs := byAssignment[a.ID]
		if subs == nil {
			subs = []*domain.Submission{}
		}
		result = append(result, &domain.AssignmentDetails{Assignment: *a, Submissions: subs})
	}
	return result, nil
}

func (s *AssignmentService) UpdateAssignment(ctx context.Context, id uuid.UUID, in *UpdateAssignmentInput) (*domain.Assignment, error) {
	patch := &domain.AssignmentPatch{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty: %w", errdefs.ErrValidation)
		}
		patch.Name = &name
	}
	if in.Rubric != nil {
		rubric := strings.TrimSpace(*in.Rubric)
		patch.Rubric = &rubric
	}
	if in.RubricID != nil {
		raw := strings.TrimSpace(*in.RubricID)
		if raw == "" {
			patch.ClearRubricID = true
		} else {
			rubricID, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("rubric_id must be a UUID: %w", errdefs.ErrValidation)
			}
			patch.RubricID = &rubricID
		}
	}
	if in.DueDate != nil {
		dueDate, err := ParseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		if dueDate == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = dueDate
		}
	}

	return s.assignmentRepo.Update(ctx, id, patch)
}

// DeleteAssignment removes the assignment; its submissions go with it.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	return s.assignmentRepo.Delete(ctx, id)
}

func (s *AssignmentService) rubricFromUpload(file *Upload) string {
	format := domain.FormatOf(file.Filename)
	if !format.IsValid() {
		format = domain.FormatTXT
	}
	return strings.TrimSpace(s.extractor.Extract(file.Data, format).Text)
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate parses an ISO-8601 date or date-time. Values without an offset
// are taken as UTC. An empty string yields nil.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, fmt.Errorf("due_date must be ISO format (e.g. 2025-11-19T13:00): %w", errdefs.ErrValidation)
}
