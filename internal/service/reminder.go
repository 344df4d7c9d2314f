package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"grading_service/pkg/logger"
)

type ReminderService struct {
	assignmentRepo AssignmentRepository
	events         EventPublisher
	topic          string
	window         time.Duration
	interval       time.Duration
	log            *logger.Logger
}

// NewReminderService builds a service meant to run once per interval. Each run
// reminds about assignments that entered the window since the previous run.
func NewReminderService(
	assignmentRepo AssignmentRepository,
	events EventPublisher,
	topic string,
	window time.Duration,
	interval time.Duration,
	log *logger.Logger,
) *ReminderService {
	return &ReminderService{
		assignmentRepo: assignmentRepo,
		events:         events,
		topic:          topic,
		window:         window,
		interval:       interval,
		log:            log,
	}
}

func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	return s.SendDueRemindersAt(ctx, time.Now().UTC())
}

// SendDueRemindersAt publishes one reminder per assignment due in
// (now+window-interval, now+window] and returns how many were sent. When the
// interval is not shorter than the window the range starts at now. A failed
// send is logged and skipped.
func (s *ReminderService) SendDueRemindersAt(ctx context.Context, now time.Time) (int, error) {
	to := now.Add(s.window)
	from := now
	if s.interval > 0 && s.interval < s.window {
		from = to.Add(-s.interval)
	}

	assignments, err := s.assignmentRepo.FindDueBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, assignment := range assignments {
		if assignment.DueDate == nil {
			continue
		}

		event := AssignmentDueEvent{
			AssignmentID: assignment.ID,
			Name:         assignment.Name,
			DueDate:      *assignment.DueDate,
		}
		if assignment.OwnerEmail != nil {
			event.OwnerEmail = *assignment.OwnerEmail
		}

		if err := s.events.Send(ctx, s.topic, assignment.ID.String(), event); err != nil {
			s.log.Error("failed to send reminder",
				zap.String("assignment_id", assignment.ID.String()),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	return sent, nil
}
