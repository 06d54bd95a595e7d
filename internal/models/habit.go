package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultFrequency     = 1
	MaxFrequency         = 7
	DefaultEstimatedTime = 120
	MaxEstimatedTime     = 120
)

// Habit is a tracked action performed at a fixed time of day every
// Frequency days, starting from the day it was created.
type Habit struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Action         string              `bson:"action" json:"action"`
	Time           TimeOfDay           `bson:"time" json:"time"`
	Place          string              `bson:"place" json:"place"`
	Frequency      int                 `bson:"frequency" json:"frequency"`           // days between repetitions
	EstimatedTime  int                 `bson:"estimated_time" json:"estimated_time"` // seconds
	StartFrom      time.Time           `bson:"start_from" json:"start_from"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	RelatedHabitID *primitive.ObjectID `bson:"related_habit_id,omitempty" json:"related_habit,omitempty"`
	IsPleasant     bool                `bson:"is_pleasant" json:"is_pleasant"`
	Reward         string              `bson:"reward,omitempty" json:"reward,omitempty"`
	IsPublic       bool                `bson:"is_public" json:"is_public"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// HasRelatedHabit reports whether the habit links to a reward habit.
func (h *Habit) HasRelatedHabit() bool {
	return h.RelatedHabitID != nil && !h.RelatedHabitID.IsZero()
}

// SameState reports whether h and o hold identical user-editable fields.
func (h *Habit) SameState(o *Habit) bool {
	sameRelated := h.HasRelatedHabit() == o.HasRelatedHabit() &&
		(!h.HasRelatedHabit() || *h.RelatedHabitID == *o.RelatedHabitID)

	return sameRelated &&
		h.Action == o.Action &&
		h.Time == o.Time &&
		h.Place == o.Place &&
		h.Frequency == o.Frequency &&
		h.EstimatedTime == o.EstimatedTime &&
		h.Description == o.Description &&
		h.IsPleasant == o.IsPleasant &&
		h.Reward == o.Reward &&
		h.IsPublic == o.IsPublic
}

// MarshalJSON renders start_from as a calendar date.
func (h Habit) MarshalJSON() ([]byte, error) {
	type alias Habit
	return json.Marshal(struct {
		alias
		StartFrom string `json:"start_from"`
	}{
		alias:     alias(h),
		StartFrom: h.StartFrom.Format(DateLayout),
	})
}

// HabitInput is the payload of a create or full update.
type HabitInput struct {
	Action         string              `json:"action"`
	Time           *TimeOfDay          `json:"time"`
	Place          string              `json:"place"`
	Frequency      *int                `json:"frequency"`
	EstimatedTime  *int                `json:"estimated_time"`
	Description    string              `json:"description"`
	RelatedHabitID *primitive.ObjectID `json:"related_habit"`
	IsPleasant     bool                `json:"is_pleasant"`
	Reward         string              `json:"reward"`
	IsPublic       bool                `json:"is_public"`
}

// HabitPatch is the payload of a partial update. Fields left unset keep
// their stored value; related_habit, reward and description may be nulled.
type HabitPatch struct {
	Action         Optional[string]             `json:"action"`
	Time           Optional[TimeOfDay]          `json:"time"`
	Place          Optional[string]             `json:"place"`
	Frequency      Optional[int]                `json:"frequency"`
	EstimatedTime  Optional[int]                `json:"estimated_time"`
	Description    Optional[string]             `json:"description"`
	RelatedHabitID Optional[primitive.ObjectID] `json:"related_habit"`
	IsPleasant     Optional[bool]               `json:"is_pleasant"`
	Reward         Optional[string]             `json:"reward"`
	IsPublic       Optional[bool]               `json:"is_public"`
}

// HabitPage is one page of a habit listing.
type HabitPage struct {
	Count   int64   `json:"count"`
	Page    int     `json:"page"`
	Results []Habit `json:"results"`
}
