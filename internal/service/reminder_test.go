package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"grading_service/internal/domain"
	"grading_service/internal/service"
	"grading_service/internal/service/mocks"
	"grading_service/pkg/logger"
)

func TestReminderService_SendDueReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(23*time.Hour + 30*time.Minute)
	owner := "prof@example.edu"

	a1 := &domain.Assignment{ID: uuid.New(), Name: "Essay", DueDate: &due, OwnerEmail: &owner}
	a2 := &domain.Assignment{ID: uuid.New(), Name: "Lab", DueDate: &due}
	a3 := &domain.Assignment{ID: uuid.New(), Name: "Undated"}

	assignments := new(mocks.MockAssignmentRepository)
	events := new(mocks.MockPublisher)
	assignments.On("FindDueBetween", ctx, now.Add(23*time.Hour), now.Add(24*time.Hour)).
		Return([]*domain.Assignment{a1, a2, a3}, nil)

	events.On("Send", ctx, "assignment-reminders", a1.ID.String(), service.AssignmentDueEvent{
		AssignmentID: a1.ID,
		Name:         "Essay",
		OwnerEmail:   owner,
		DueDate:      due,
	}).Return(nil)
	events.On("Send", ctx, "assignment-reminders", a2.ID.String(), mock.Anything).Return(errors.New("broker down"))

	svc := service.NewReminderService(assignments, events, "assignment-reminders", 24*time.Hour, time.Hour, logger.NewNop())
	sent, err := svc.SendDueRemindersAt(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	events.AssertNumberOfCalls(t, "Send", 2)
	assignments.AssertExpectations(t)
}

// Consecutive runs must query adjacent, non-overlapping ranges so an
// assignment is reminded about once.
func TestReminderService_ConsecutiveRunsDoNotOverlap(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	var ranges [][2]time.Time
	assignments := new(mocks.MockAssignmentRepository)
	assignments.On("FindDueBetween", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			ranges = append(ranges, [2]time.Time{args.Get(1).(time.Time), args.Get(2).(time.Time)})
		}).
		Return([]*domain.Assignment{}, nil)

	svc := service.NewReminderService(assignments, new(mocks.MockPublisher), "r", 24*time.Hour, time.Hour, logger.NewNop())
	for i := 0; i < 3; i++ {
		_, err := svc.SendDueRemindersAt(ctx, start.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	require.Len(t, ranges, 3)
	for i := 1; i < len(ranges); i++ {
		assert.Equal(t, ranges[i-1][1], ranges[i][0])
	}
	assert.Equal(t, start.Add(23*time.Hour), ranges[0][0])
	assert.Equal(t, start.Add(24*time.Hour), ranges[0][1])
}

func TestReminderService_IntervalNotShorterThanWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	assignments := new(mocks.MockAssignmentRepository)
	assignments.On("FindDueBetween", ctx, now, now.Add(time.Hour)).Return([]*domain.Assignment{}, nil)

	svc := service.NewReminderService(assignments, new(mocks.MockPublisher), "r", time.Hour, 2*time.Hour, logger.NewNop())
	sent, err := svc.SendDueRemindersAt(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assignments.AssertExpectations(t)
}

func TestReminderService_RepositoryError(t *testing.T) {
	ctx := context.Background()
	assignments := new(mocks.MockAssignmentRepository)
	assignments.On("FindDueBetween", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	svc := service.NewReminderService(assignments, new(mocks.MockPublisher), "r", time.Hour, time.Minute, logger.NewNop())
	_, err := svc.SendDueReminders(ctx)
	assert.Error(t, err)
}
