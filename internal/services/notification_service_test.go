package services

import (
	"context"
	"testing"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationOwnership(t *testing.T) {
	store := testutil.NewNotificationStore()
	svc := NewNotificationService(store)
	ctx := context.Background()
	owner, other := primitive.NewObjectID(), primitive.NewObjectID()
	habitID := primitive.NewObjectID()

	require.NoError(t, svc.CreateNotification(ctx, owner, models.NotificationHabitReminder, "Reminder", "It's time to do run.", &habitID))

	list, err := svc.GetUserNotifications(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	assert.ErrorIs(t, svc.MarkNotificationAsRead(ctx, other, id), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteNotification(ctx, other, id), ErrForbidden)
	assert.ErrorIs(t, svc.MarkNotificationAsRead(ctx, owner, primitive.NewObjectID()), ErrNotFound)

	require.NoError(t, svc.MarkNotificationAsRead(ctx, owner, id))
	assert.True(t, store.All()[0].Read)

	require.NoError(t, svc.DeleteNotification(ctx, owner, id))
	assert.Empty(t, store.All())
}

func TestHabitReminders(t *testing.T) {
	store := testutil.NewNotificationStore()
	svc := NewNotificationService(store)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	run, read := primitive.NewObjectID(), primitive.NewObjectID()

	require.NoError(t, svc.CreateNotification(ctx, owner, models.NotificationHabitReminder, "Reminder", "It's time to do run.", &run))
	require.NoError(t, svc.CreateNotification(ctx, owner, models.NotificationHabitReminder, "Reminder", "It's time to do read.", &read))
	require.NoError(t, svc.CreateNotification(ctx, owner, models.NotificationHabitReminderFailed, "Reminder", "It's time to do run.", &run))

	got, err := svc.HabitReminders(ctx, owner, run.Hex(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.NotificationHabitReminderFailed, got[0].Type)

	got, err = svc.HabitReminders(ctx, primitive.NewObjectID(), run.Hex(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.HabitReminders(ctx, owner, "nope", 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}
