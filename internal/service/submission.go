package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
)

type SubmissionServiceInterface interface {
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	FinalizeSubmission(ctx context.Context, id uuid.UUID, finalGrade string) error
	DeleteSubmission(ctx context.Context, id uuid.UUID) error
}

type submissionService struct {
	submissionRepo SubmissionRepository
}

func NewSubmissionService(submissionRepo SubmissionRepository) SubmissionServiceInterface {
	return &submissionService{submissionRepo: submissionRepo}
}

func (s *submissionService) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return s.submissionRepo.GetByID(ctx, id)
}

// FinalizeSubmission records the reviewer's grade. Calling it again overwrites
// the previous final grade.
func (s *submissionService) FinalizeSubmission(ctx context.Context, id uuid.UUID, finalGrade string) error {
	finalGrade = strings.TrimSpace(finalGrade)
	if finalGrade == "" {
		return fmt.Errorf("final_grade is required: %w", errdefs.ErrValidation)
	}
	return s.submissionRepo.SetFinalGrade(ctx, id, finalGrade)
}

// DeleteSubmission removes the record only. The stored file may be shared
// with a later upload of the same name, so it is left in place.
func (s *submissionService) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	return s.submissionRepo.Delete(ctx, id)
}
