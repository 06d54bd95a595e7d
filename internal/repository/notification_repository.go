package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReminderTTL is how long a reminder record stays in a user's inbox.
const ReminderTTL = 7 * 24 * time.Hour

// reminderTypes are the notification kinds written by the reminder sweep.
var reminderTypes = bson.A{models.NotificationHabitReminder, models.NotificationHabitReminderFailed}

// NotificationRepository stores the inbox of reminder records. Each record
// points at the habit it was about through target_id.
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// CreateNotification stores a reminder record and stamps its expiry.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) error {
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(ReminderTTL)

	result, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": notif.UserID.Hex(),
			"type":    notif.Type,
		}).WithError(err).Error("Failed to store reminder record")
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = id
	}
	return nil
}

func (r *NotificationRepository) GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notif models.Notification
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notif); err != nil {
		return nil, translate(err)
	}
	return &notif, nil
}

// GetUserNotifications returns the unexpired inbox of a user, newest first.
func (r *NotificationRepository) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return r.find(ctx, bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now()},
	}, 0)
}

// GetHabitReminders returns the reminder history of one habit of userID,
// newest first. A limit of zero returns every unexpired record.
func (r *NotificationRepository) GetHabitReminders(ctx context.Context, userID, habitID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	return r.find(ctx, bson.M{
		"user_id":    userID,
		"target_id":  habitID,
		"type":       bson.M{"$in": reminderTypes},
		"expires_at": bson.M{"$gt": time.Now()},
	}, limit)
}

func (r *NotificationRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead flags a reminder record as seen.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredNotifications drops reminder records past their expiry.
func (r *NotificationRepository) DeleteExpiredNotifications(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	logrus.WithField("deleted", result.DeletedCount).Info("Expired reminder records removed")
	return result.DeletedCount, nil
}
