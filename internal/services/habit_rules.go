package services

import (
	"fmt"

	"github.com/Dias221467/Habit_Tracker/internal/models"
)

// User-facing validation messages.
const (
	MsgRelatedOrReward       = "You may add either a related habit or a reward."
	MsgRelatedNotLearned     = "Habit '%s' is not learned yet to become a related habit."
	MsgLearnedHasExtras      = "Learned habit should have no related habits or rewards."
	MsgTimeSequence          = "New habit should be done after the related habit."
	MsgFrequencyRange        = "You should practice your habit at least once a week."
	MsgEstimatedTimeTooLong  = "Your new habit shouldn't take longer than 2 minutes."
	MsgEstimatedTimePositive = "Estimated time should be a positive number of seconds."
	MsgRelatedMissing        = "Related habit does not exist."
	MsgDuplicateAction       = "Habit with this action already exists."
	MsgFieldRequired         = "This field is required."
	MsgFieldNotNull          = "This field may not be null."
	MsgDependentsNeedLearned = "Habit is used as a related habit and must stay learned."
	MsgDependentsNeedEarlier = "Habit is used as a related habit and should be done before the habits that depend on it."
)

// HabitCandidate is the fully merged state of a habit about to be stored,
// together with its resolved related habit.
type HabitCandidate struct {
	Habit *models.Habit
	// Related is the current stored record of Habit.RelatedHabitID, or nil
	// when no habit is linked or the link could not be resolved.
	Related *models.Habit
	// RelatedMissing is set when Habit.RelatedHabitID names no visible habit.
	RelatedMissing bool
}

// habitRule checks one cross-field invariant and returns a message when
// it is violated.
type habitRule func(c HabitCandidate) (string, bool)

var habitRules = []habitRule{
	relatedOrReward,
	relatedMustBeLearned,
	learnedHasNoExtras,
	relatedComesFirst,
}

// ValidateHabit runs every field and cross-field rule against the candidate
// and returns a *ValidationError holding all violations, or nil.
func ValidateHabit(c HabitCandidate) error {
	verr := NewValidationError()
	validateHabitFields(c.Habit, verr)

	for _, rule := range habitRules {
		if msg, bad := rule(c); bad {
			verr.Add(NonFieldErrors, msg)
		}
	}
	return verr.errOrNil()
}

func validateHabitFields(h *models.Habit, verr *ValidationError) {
	if h.Action == "" {
		verr.Add("action", MsgFieldRequired)
	}
	if h.Place == "" {
		verr.Add("place", MsgFieldRequired)
	}
	if h.Frequency < 1 || h.Frequency > models.MaxFrequency {
		verr.Add("frequency", MsgFrequencyRange)
	}
	switch {
	case h.EstimatedTime > models.MaxEstimatedTime:
		verr.Add("estimated_time", MsgEstimatedTimeTooLong)
	case h.EstimatedTime <= 0:
		verr.Add("estimated_time", MsgEstimatedTimePositive)
	}
}

func relatedOrReward(c HabitCandidate) (string, bool) {
	return MsgRelatedOrReward, c.Habit.HasRelatedHabit() && c.Habit.Reward != ""
}

func relatedMustBeLearned(c HabitCandidate) (string, bool) {
	if !c.Habit.HasRelatedHabit() {
		return "", false
	}
	if c.RelatedMissing || c.Related == nil {
		return MsgRelatedMissing, true
	}
	return fmt.Sprintf(MsgRelatedNotLearned, c.Related.Action), !c.Related.IsPleasant
}

func learnedHasNoExtras(c HabitCandidate) (string, bool) {
	h := c.Habit
	return MsgLearnedHasExtras, h.IsPleasant && (h.HasRelatedHabit() || h.Reward != "")
}

func relatedComesFirst(c HabitCandidate) (string, bool) {
	if c.Related == nil || !c.Habit.HasRelatedHabit() {
		return "", false
	}
	return MsgTimeSequence, c.Related.Time.After(c.Habit.Time)
}
