package services

import (
	"context"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitStore is the persistence the habit service needs. It is satisfied
// by *repository.HabitRepository.
type HabitStore interface {
	CreateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	GetHabitByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error)
	GetHabitByAction(ctx context.Context, action string) (*models.Habit, error)
	UpdateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	DeleteHabit(ctx context.Context, id primitive.ObjectID) error
	DeleteHabitsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	GetDependentHabits(ctx context.Context, id primitive.ObjectID) ([]models.Habit, error)
	ListHabitsByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Habit, int64, error)
	ListPublicHabits(ctx context.Context, skip, limit int64) ([]models.Habit, int64, error)
	GetHabitsByUser(ctx context.Context, userID primitive.ObjectID, publicOnly bool) ([]models.Habit, error)
	GetDueCandidates(ctx context.Context, userID primitive.ObjectID, today time.Time, at models.TimeOfDay) ([]models.Habit, error)
}

// UserStore is satisfied by *repository.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

// NotificationStore is satisfied by *repository.NotificationRepository.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetNotificationByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	GetHabitReminders(ctx context.Context, userID, habitID primitive.ObjectID, limit int64) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error
	DeleteExpiredNotifications(ctx context.Context) (int64, error)
}

// ActivityStore is satisfied by *repository.ActivityRepository.
type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetUserActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error)
	DeleteUserActivities(ctx context.Context, userID primitive.ObjectID) error
}
