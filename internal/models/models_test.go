package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "22:30", want: TimeOfDay{Hour: 22, Minute: 30}},
		{in: "07:05:59", want: TimeOfDay{Hour: 7, Minute: 5}},
		{in: "00:00", want: TimeOfDay{}},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "7:05", wantErr: true},
		{in: "12:00:61", wantErr: true},
		{in: "noon", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	early := TimeOfDay{Hour: 22, Minute: 30}
	late := TimeOfDay{Hour: 23, Minute: 0}

	assert.True(t, late.After(early))
	assert.False(t, early.After(late))
	assert.False(t, early.After(early))
	assert.Equal(t, "22:30", early.String())
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+3", 3*60*60)

	assert.Equal(t, 0, DaysBetween(start, time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, 3, DaysBetween(start, time.Date(2024, 1, 4, 0, 1, 0, 0, time.UTC)))
	assert.Equal(t, 60, DaysBetween(start, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	// The calendar date is taken in the timestamp's own location.
	assert.Equal(t, 1, DaysBetween(start, time.Date(2024, 1, 2, 1, 0, 0, 0, loc)))
}

func TestOptionalUnmarshal(t *testing.T) {
	var patch HabitPatch
	body := `{"reward": null, "frequency": 3, "time": "08:15"}`
	require.NoError(t, json.Unmarshal([]byte(body), &patch))

	assert.True(t, patch.Reward.Set)
	assert.True(t, patch.Reward.Null)
	assert.False(t, patch.Reward.Present())

	assert.True(t, patch.Frequency.Present())
	assert.Equal(t, 3, patch.Frequency.Value)

	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 15}, patch.Time.Value)
	assert.False(t, patch.Action.Set)
	assert.False(t, patch.RelatedHabitID.Set)
}

func TestHabitJSONRepresentation(t *testing.T) {
	related := primitive.NewObjectID()
	h := Habit{
		ID:             primitive.NewObjectID(),
		Action:         "go to bed",
		Time:           TimeOfDay{Hour: 23},
		StartFrom:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RelatedHabitID: &related,
	}

	raw, err := json.Marshal(h)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "23:00", out["time"])
	assert.Equal(t, "2024-01-01", out["start_from"])
	assert.Equal(t, related.Hex(), out["related_habit"])
	assert.NotContains(t, out, "reward")

	h.RelatedHabitID = nil
	raw, err = json.Marshal(h)
	require.NoError(t, err)
	out = map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "related_habit")
	assert.NotContains(t, out, "reward")
}

func TestHabitSameState(t *testing.T) {
	related := primitive.NewObjectID()
	a := Habit{Action: "read", Time: TimeOfDay{Hour: 9}, Frequency: 1, RelatedHabitID: &related}
	b := a
	other := related
	b.RelatedHabitID = &other
	b.UpdatedAt = time.Now()

	assert.True(t, a.SameState(&b))

	b.Reward = "tea"
	assert.False(t, a.SameState(&b))
}
