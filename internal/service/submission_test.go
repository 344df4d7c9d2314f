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

func TestSubmissionService_GetSubmission(t *testing.T) {
	repo := new(mocks.MockSubmissionRepository)
	svc := service.NewSubmissionService(repo)
	ctx := context.Background()

	id := uuid.New()
	sub := &domain.Submission{ID: id, StudentName: "Jane Doe", AIGrade: "91"}
	repo.On("GetByID", ctx, id).Return(sub, nil)

	got, err := svc.GetSubmission(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sub, got)

	missing := uuid.New()
	repo.On("GetByID", ctx, missing).Return(nil, errdefs.ErrNotFound)
	_, err = svc.GetSubmission(ctx, missing)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestSubmissionService_FinalizeSubmission(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("last write wins", func(t *testing.T) {
		repo := new(mocks.MockSubmissionRepository)
		svc := service.NewSubmissionService(repo)

		var stored string
		repo.On("SetFinalGrade", ctx, id, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { stored = args.String(2) }).
			Return(nil)

		require.NoError(t, svc.FinalizeSubmission(ctx, id, "B+"))
		require.NoError(t, svc.FinalizeSubmission(ctx, id, " A- "))
		assert.Equal(t, "A-", stored)
		repo.AssertNumberOfCalls(t, "SetFinalGrade", 2)
	})

	t.Run("empty grade", func(t *testing.T) {
		repo := new(mocks.MockSubmissionRepository)
		svc := service.NewSubmissionService(repo)

		err := svc.FinalizeSubmission(ctx, id, "   ")
		assert.ErrorIs(t, err, errdefs.ErrValidation)
		repo.AssertNotCalled(t, "SetFinalGrade", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown submission", func(t *testing.T) {
		repo := new(mocks.MockSubmissionRepository)
		svc := service.NewSubmissionService(repo)
		repo.On("SetFinalGrade", ctx, id, "90").Return(errdefs.ErrNotFound)

		assert.ErrorIs(t, svc.FinalizeSubmission(ctx, id, "90"), errdefs.ErrNotFound)
	})
}

func TestSubmissionService_DeleteSubmission(t *testing.T) {
	repo := new(mocks.MockSubmissionRepository)
	svc := service.NewSubmissionService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("Delete", ctx, id).Return(nil)
	assert.NoError(t, svc.DeleteSubmission(ctx, id))
	repo.AssertExpectations(t)
}
