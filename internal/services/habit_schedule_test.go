package services

import (
	"testing"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func scheduledHabit(frequency int) models.Habit {
	return models.Habit{
		Action:    "stretching",
		Time:      models.TimeOfDay{Hour: 7, Minute: 15},
		Frequency: frequency,
		StartFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestIsDueRecurrence(t *testing.T) {
	h := scheduledHabit(3)
	at := func(day int) time.Time { return time.Date(2024, 1, day, 7, 15, 0, 0, time.UTC) }

	assert.True(t, IsDue(&h, at(1)), "fires on its start day")
	assert.False(t, IsDue(&h, at(2)))
	assert.False(t, IsDue(&h, at(3)))
	assert.True(t, IsDue(&h, at(4)), "3 days elapsed")
	assert.False(t, IsDue(&h, at(5)))
	assert.True(t, IsDue(&h, at(7)))
}

func TestIsDueMinuteGranularity(t *testing.T) {
	h := scheduledHabit(1)

	assert.True(t, IsDue(&h, time.Date(2024, 1, 2, 7, 15, 59, 0, time.UTC)))
	assert.False(t, IsDue(&h, time.Date(2024, 1, 2, 7, 16, 0, 0, time.UTC)))
	assert.False(t, IsDue(&h, time.Date(2024, 1, 2, 8, 15, 0, 0, time.UTC)))
}

func TestIsDueExclusions(t *testing.T) {
	notStarted := scheduledHabit(1)
	assert.False(t, IsDue(&notStarted, time.Date(2023, 12, 31, 7, 15, 0, 0, time.UTC)))

	pleasant := scheduledHabit(1)
	pleasant.IsPleasant = true
	assert.False(t, IsDue(&pleasant, time.Date(2024, 1, 1, 7, 15, 0, 0, time.UTC)))

	broken := scheduledHabit(0)
	assert.False(t, IsDue(&broken, time.Date(2024, 1, 1, 7, 15, 0, 0, time.UTC)))
}

func TestIsDueUsesLocalCalendarDate(t *testing.T) {
	h := scheduledHabit(2)
	h.Time = models.TimeOfDay{Hour: 1, Minute: 0}
	loc := time.FixedZone("UTC+5", 5*60*60)

	// 2024-01-03 01:00 local is still 2024-01-02 in UTC; the local date counts.
	now := time.Date(2024, 1, 3, 1, 0, 0, 0, loc)
	assert.True(t, IsDue(&h, now))
}

func TestSelectDue(t *testing.T) {
	daily := scheduledHabit(1)
	daily.Action = "daily"
	everyThird := scheduledHabit(3)
	everyThird.Action = "every third"
	later := scheduledHabit(1)
	later.Action = "later"
	later.Time = models.TimeOfDay{Hour: 21}

	due := SelectDue([]models.Habit{daily, everyThird, later}, time.Date(2024, 1, 5, 7, 15, 0, 0, time.UTC))
	if assert.Len(t, due, 1) {
		assert.Equal(t, "daily", due[0].Action)
	}
}
