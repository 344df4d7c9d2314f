package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"grading_service/internal/domain"
	"grading_service/internal/errdefs"
	"grading_service/internal/service"
	"grading_service/internal/service/mocks"
)

func TestPinService(t *testing.T) {
	ctx := context.Background()
	assignmentID := uuid.New()
	classID := int64(7)

	t.Run("create", func(t *testing.T) {
		pins := new(mocks.MockPinRepository)
		assignments := new(mocks.MockAssignmentRepository)
		svc := service.NewPinService(pins, assignments)

		assignments.On("GetByID", ctx, assignmentID).Return(&domain.Assignment{ID: assignmentID}, nil)
		pins.On("Create", ctx, mock.MatchedBy(func(p *domain.Pin) bool {
			return p.AssignmentID == assignmentID && p.PinCode == "ABC123" && *p.ClassID == classID
		})).Return(&domain.Pin{ID: uuid.New(), AssignmentID: assignmentID, PinCode: "ABC123", ClassID: &classID}, nil)

		pin, err := svc.CreatePin(ctx, assignmentID, " ABC123 ", &classID)
		require.NoError(t, err)
		assert.Equal(t, "ABC123", pin.PinCode)
	})

	t.Run("validation", func(t *testing.T) {
		svc := service.NewPinService(new(mocks.MockPinRepository), new(mocks.MockAssignmentRepository))

		_, err := svc.CreatePin(ctx, uuid.Nil, "ABC123", nil)
		assert.ErrorIs(t, err, errdefs.ErrValidation)
		_, err = svc.CreatePin(ctx, assignmentID, "", nil)
		assert.ErrorIs(t, err, errdefs.ErrValidation)
		_, err = svc.GetPin(ctx, " ")
		assert.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		pins := new(mocks.MockPinRepository)
		assignments := new(mocks.MockAssignmentRepository)
		svc := service.NewPinService(pins, assignments)
		assignments.On("GetByID", ctx, assignmentID).Return(nil, errdefs.ErrNotFound)

		_, err := svc.CreatePin(ctx, assignmentID, "ABC123", nil)
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
		pins.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lookup", func(t *testing.T) {
		pins := new(mocks.MockPinRepository)
		svc := service.NewPinService(pins, new(mocks.MockAssignmentRepository))
		pins.On("GetByCode", ctx, "XYZ").Return(nil, errdefs.ErrNotFound)

		_, err := svc.GetPin(ctx, "XYZ")
		assert.ErrorIs(t, err, errdefs.ErrNotFound)
	})
}
