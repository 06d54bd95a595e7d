package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	repo NotificationStore
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

// CreateNotification records a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// HabitReminders returns the latest reminder records about one habit of userID.
func (s *NotificationService) HabitReminders(ctx context.Context, userID primitive.ObjectID, habitID string, limit int) ([]models.Notification, error) {
	id, err := primitive.ObjectIDFromHex(habitID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if limit < 0 {
		limit = 0
	}
	return s.repo.GetHabitReminders(ctx, userID, id, int64(limit))
}

// MarkNotificationAsRead sets the "read" status of a notification owned by
// userID to true
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	if err := s.checkOwner(ctx, userID, notifID); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, notifID)
}

// DeleteNotification deletes a notification owned by userID
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, notifID primitive.ObjectID) error {
	if err := s.checkOwner(ctx, userID, notifID); err != nil {
		return err
	}
	return s.repo.DeleteNotification(ctx, notifID)
}

// DeleteExpiredNotifications is called periodically by cron to drop old notifications.
func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	if _, err := s.repo.DeleteExpiredNotifications(ctx); err != nil {
		return fmt.Errorf("failed to clean up notifications: %w", err)
	}
	return nil
}

func (s *NotificationService) checkOwner(ctx context.Context, userID, notifID primitive.ObjectID) error {
	notif, err := s.repo.GetNotificationByID(ctx, notifID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if notif.UserID != userID {
		logrus.WithFields(logrus.Fields{
			"user_id":         userID.Hex(),
			"notification_id": notifID.Hex(),
		}).Warn("Forbidden: notification belongs to another user")
		return ErrForbidden
	}
	return nil
}
