package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
)

type PinServiceInterface interface {
	CreatePin(ctx context.Context, assignmentID uuid.UUID, pinCode string, classID *int64) (*domain.Pin, error)
	GetPin(ctx context.Context, pinCode string) (*domain.Pin, error)
}

type pinService struct {
	pinRepo        PinRepository
	assignmentRepo AssignmentRepository
}

func NewPinService(pinRepo PinRepository, assignmentRepo AssignmentRepository) PinServiceInterface {
	return &pinService{
		pinRepo:        pinRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (s *pinService) CreatePin(ctx context.Context, assignmentID uuid.UUID, pinCode string, classID *int64) (*domain.Pin, error) {
	pinCode = strings.TrimSpace(pinCode)
	if assignmentID == uuid.Nil {
		return nil, fmt.Errorf("assignment_id is required: %w", errdefs.ErrValidation)
	}
	if pinCode == "" {
		return nil, fmt.Errorf("pin_code is required: %w", errdefs.ErrValidation)
	}

	if _, err := s.assignmentRepo.GetByID(ctx, assignmentID); err != nil {
		return nil, err
	}

	return s.pinRepo.Create(ctx, &domain.Pin{
		AssignmentID: assignmentID,
		ClassID:      classID,
		PinCode:      pinCode,
	})
}

func (s *pinService) GetPin(ctx context.Context, pinCode string) (*domain.Pin, error) {
	pinCode = strings.TrimSpace(pinCode)
	if pinCode == "" {
		return nil, fmt.Errorf("pin_code is required: %w", errdefs.ErrValidation)
	}
	return s.pinRepo.GetByCode(ctx, pinCode)
}
