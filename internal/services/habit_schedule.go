package services

import (
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
)

// IsDue reports whether h should fire a reminder at the minute of now.
// now must already be in the location habit times are defined in.
// Pleasant habits never fire.
func IsDue(h *models.Habit, now time.Time) bool {
	if h.IsPleasant || h.Frequency <= 0 {
		return false
	}

	today := models.Date(now)
	if h.StartFrom.After(today) {
		return false
	}
	if h.Time != models.TimeOfDayOf(now) {
		return false
	}

	return models.DaysBetween(h.StartFrom, today)%h.Frequency == 0
}

// SelectDue filters habits down to those due at now.
func SelectDue(habits []models.Habit, now time.Time) []models.Habit {
	due := make([]models.Habit, 0, len(habits))
	for i := range habits {
		if IsDue(&habits[i], now) {
			due = append(due, habits[i])
		}
	}
	return due
}
