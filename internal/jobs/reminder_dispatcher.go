package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/metrics"
	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"

	reminderTitle       = "Habit Reminder"
	reminderFailedTitle = "Habit Reminder Failed"
)

// Sender delivers a text message to an address (chat id, e-mail address).
type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// SweepResult summarises one reminder sweep.
type SweepResult struct {
	Due    int
	Sent   int
	Failed int
}

// ReminderDispatcher finds the habits due at the current minute for every
// user and sends a reminder for each of them.
type ReminderDispatcher struct {
	UserService         *services.UserService
	HabitService        *services.HabitService
	NotificationService *services.NotificationService

	telegram Sender
	email    Sender
	workers  int
	timeout  time.Duration
	clock    func() time.Time
}

// NewReminderDispatcher creates a dispatcher. Either sender may be nil;
// e-mail is used when a user has no Telegram chat or Telegram fails.
func NewReminderDispatcher(
	userService *services.UserService,
	habitService *services.HabitService,
	notifService *services.NotificationService,
	telegram, email Sender,
	workers int,
	timeout time.Duration,
) *ReminderDispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &ReminderDispatcher{
		UserService:         userService,
		HabitService:        habitService,
		NotificationService: notifService,
		telegram:            telegram,
		email:               email,
		workers:             workers,
		timeout:             timeout,
		clock:               time.Now,
	}
}

// SetClock replaces the time source of the sweep.
func (d *ReminderDispatcher) SetClock(clock func() time.Time) {
	d.clock = clock
}

type reminder struct {
	user  *models.User
	habit models.Habit
}

// ReminderText is the message sent for a due habit.
func ReminderText(h *models.Habit) string {
	return fmt.Sprintf("It's time to do %s.", h.Action)
}

// RunSweep sends reminders for every habit due now. A failed delivery is
// logged and recorded but never stops the other deliveries.
func (d *ReminderDispatcher) RunSweep(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	now := d.clock().Truncate(time.Minute)

	users, err := d.UserService.GetAllUsers(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to fetch users: %w", err)
	}

	var due []reminder
	for _, user := range users {
		habits, err := d.HabitService.DueHabits(ctx, user.ID, now)
		if err != nil {
			logrus.WithError(err).WithField("user_id", user.ID.Hex()).Error("Failed to select due habits")
			continue
		}
		for _, h := range habits {
			due = append(due, reminder{user: user, habit: h})
		}
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(d.workers)
	for _, r := range due {
		r := r
		g.Go(func() error {
			if d.deliver(ctx, r) {
				sent.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := SweepResult{Due: len(due), Sent: int(sent.Load()), Failed: int(failed.Load())}
	metrics.RecordSweep(time.Since(start), result.Due)
	logrus.WithFields(logrus.Fields{
		"due":    result.Due,
		"sent":   result.Sent,
		"failed": result.Failed,
		"minute": now.Format("2006-01-02 15:04"),
	}).Info("Reminder sweep completed")
	return result, nil
}

func (d *ReminderDispatcher) deliver(ctx context.Context, r reminder) bool {
	text := ReminderText(&r.habit)
	log := logrus.WithFields(logrus.Fields{
		"user_id":  r.user.ID.Hex(),
		"habit_id": r.habit.ID.Hex(),
	})

	var lastErr error
	for _, ch := range d.channels(r.user) {
		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := ch.sender.Send(sendCtx, ch.address, text)
		cancel()

		metrics.RecordReminder(ch.name, err == nil)
		if err == nil {
			log.WithField("channel", ch.name).Info("Reminder sent")
			d.record(ctx, r, models.NotificationHabitReminder, reminderTitle, text)
			return true
		}
		log.WithError(err).WithField("channel", ch.name).Warn("Reminder delivery failed")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no delivery channel configured")
		metrics.RecordReminder("", false)
		log.Warn("Reminder skipped: user has no delivery channel")
	}
	d.record(ctx, r, models.NotificationHabitReminderFailed, reminderFailedTitle,
		fmt.Sprintf("%s (delivery failed: %v)", text, lastErr))
	return false
}

type channel struct {
	name    string
	sender  Sender
	address string
}

func (d *ReminderDispatcher) channels(u *models.User) []channel {
	var out []channel
	if d.telegram != nil && u.Telegram != "" {
		out = append(out, channel{name: ChannelTelegram, sender: d.telegram, address: u.Telegram})
	}
	if d.email != nil && u.Email != "" {
		out = append(out, channel{name: ChannelEmail, sender: d.email, address: u.Email})
	}
	return out
}

func (d *ReminderDispatcher) record(ctx context.Context, r reminder, kind, title, message string) {
	if d.NotificationService == nil {
		return
	}
	habitID := r.habit.ID
	if err := d.NotificationService.CreateNotification(ctx, r.user.ID, kind, title, message, &habitID); err != nil {
		logrus.WithError(err).WithField("user_id", r.user.ID.Hex()).Error("Failed to record reminder notification")
	}
}
