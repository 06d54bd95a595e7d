package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const notificationsNS = "habit_tracker.notifications"

func TestNotificationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create stamps expiry", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		habitID := primitive.NewObjectID()
		n := &models.Notification{
			UserID:   primitive.NewObjectID(),
			Type:     models.NotificationHabitReminder,
			Message:  "It's time to do run.",
			TargetID: &habitID,
		}
		require.NoError(mt, repo.CreateNotification(ctx, n))
		assert.False(mt, n.ID.IsZero())
		assert.Equal(mt, ReminderTTL, n.ExpiresAt.Sub(n.CreatedAt))
	})

	mt.Run("habit reminders", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		userID, habitID := primitive.NewObjectID(), primitive.NewObjectID()
		sent := models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Type:      models.NotificationHabitReminder,
			Message:   "It's time to do run.",
			TargetID:  &habitID,
			CreatedAt: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
			ExpiresAt: time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC),
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, notificationsNS, mtest.FirstBatch, toDoc(mt.T, sent)),
		)

		got, err := repo.GetHabitReminders(ctx, userID, habitID, 5)
		require.NoError(mt, err)
		require.Len(mt, got, 1)
		require.NotNil(mt, got[0].TargetID)
		assert.Equal(mt, habitID, *got[0].TargetID)
		assert.Equal(mt, models.NotificationHabitReminder, got[0].Type)
	})

	mt.Run("empty inbox", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, notificationsNS, mtest.FirstBatch))

		got, err := repo.GetUserNotifications(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})

	mt.Run("mark missing as read", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		assert.ErrorIs(mt, repo.MarkAsRead(ctx, primitive.NewObjectID()), ErrNotFound)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.DeleteNotification(ctx, primitive.NewObjectID()), ErrNotFound)
	})

	mt.Run("delete expired", func(mt *mtest.T) {
		repo := NewNotificationRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		removed, err := repo.DeleteExpiredNotifications(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), removed)
	})
}
