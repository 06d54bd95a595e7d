package scheduler

import (
	"testing"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartReminderCronJobs(t *testing.T) {
	notifs := services.NewNotificationService(testutil.NewNotificationStore())

	c, err := StartReminderCronJobs("0 0 1 1 *", time.UTC, nil, notifs)
	require.NoError(t, err)
	defer c.Stop()

	assert.Len(t, c.Entries(), 2)
	assert.Equal(t, time.UTC, c.Location())
}

func TestStartReminderCronJobsInvalidSchedule(t *testing.T) {
	notifs := services.NewNotificationService(testutil.NewNotificationStore())

	_, err := StartReminderCronJobs("every minute", time.UTC, nil, notifs)
	assert.Error(t, err)
}
