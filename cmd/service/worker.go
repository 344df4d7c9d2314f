package main

import (
	"context"
	"time"

	"grading_service/pkg/logger"
)

type reminderSender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// ReminderWorker publishes due-date reminders on a fixed interval.
type ReminderWorker struct {
	reminders reminderSender
	logger    *logger.Logger
	interval  time.Duration
}

func NewReminderWorker(reminders reminderSender, interval time.Duration, logger *logger.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{
		reminders: reminders,
		logger:    logger,
		interval:  interval,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.processReminders(ctx)
		}
	}
}

func (w *ReminderWorker) processReminders(ctx context.Context) {
	sent, err := w.reminders.SendDueReminders(ctx)
	if err != nil {
		w.logger.Errorf("Failed to get assignments due soon: %v", err)
		return
	}
	if sent > 0 {
		w.logger.Infof("Sent %d assignment reminders", sent)
	}
}
