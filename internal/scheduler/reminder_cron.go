package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/jobs"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const CleanupSchedule = "0 0 * * *"

// StartReminderCronJobs registers the reminder sweep on schedule and the
// daily notification cleanup, and starts the scheduler. A sweep that is
// still running when the next one is due causes that run to be skipped.
func StartReminderCronJobs(
	schedule string,
	loc *time.Location,
	dispatcher *jobs.ReminderDispatcher,
	notificationService *services.NotificationService,
) (*cron.Cron, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger.Log))),
	)

	// Habit reminders
	if _, err := c.AddFunc(schedule, func() {
		if _, err := dispatcher.RunSweep(context.Background()); err != nil {
			logrus.WithError(err).Error("Reminder sweep failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	// Expired notifications
	if _, err := c.AddFunc(CleanupSchedule, func() {
		if err := notificationService.DeleteExpiredNotifications(context.Background()); err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	logrus.WithField("schedule", schedule).Info("Reminder cron jobs started")
	return c, nil
}
