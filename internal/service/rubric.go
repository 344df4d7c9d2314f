package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
)

type RubricServiceInterface interface {
	ListRubrics(ctx context.Context) ([]*domain.Rubric, error)
	CreateRubric(ctx context.Context, name, body string) (*domain.Rubric, error)
	DeleteRubric(ctx context.Context, id uuid.UUID) error
}

type rubricService struct {
	rubricRepo     RubricRepository
	assignmentRepo AssignmentRepository
}

func NewRubricService(rubricRepo RubricRepository, assignmentRepo AssignmentRepository) RubricServiceInterface {
	return &rubricService{
		rubricRepo:     rubricRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (s *rubricService) ListRubrics(ctx context.Context) ([]*domain.Rubric, error) {
	return s.rubricRepo.List(ctx)
}

func (s *rubricService) CreateRubric(ctx context.Context, name, body string) (*domain.Rubric, error) {
	name = strings.TrimSpace(name)
	body = strings.TrimSpace(body)
	if name == "" || body == "" {
		return nil, fmt.Errorf("name and body are required: %w", errdefs.ErrValidation)
	}

	return s.rubricRepo.Create(ctx, &domain.Rubric{Name: name, Body: body})
}

// DeleteRubric refuses to remove a rubric that any assignment still references.
func (s *rubricService) DeleteRubric(ctx context.Context, id uuid.UUID) error {
	if _, err := s.rubricRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.assignmentRepo.CountByRubric(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("rubric in use by %d assignments: %w", count, errdefs.ErrConflict)
	}

	return s.rubricRepo.Delete(ctx, id)
}
