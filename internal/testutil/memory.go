// Package testutil provides in-memory stores that mirror the MongoDB
// repositories, for service, job and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitStore keeps habits in memory and enforces the unique action index.
type HabitStore struct {
	mu     sync.Mutex
	habits map[primitive.ObjectID]models.Habit
	// Err, when set, is returned by every call.
	Err error
}

func NewHabitStore() *HabitStore {
	return &HabitStore{habits: map[primitive.ObjectID]models.Habit{}}
}

// Put stores h as-is, assigning an id when it has none.
func (s *HabitStore) Put(h models.Habit) models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	s.habits[h.ID] = h
	return h
}

// Get returns the stored habit or false.
func (s *HabitStore) Get(id primitive.ObjectID) (models.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	return h, ok
}

// Len returns the number of stored habits.
func (s *HabitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.habits)
}

func (s *HabitStore) CreateHabit(_ context.Context, habit *models.Habit) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, h := range s.habits {
		if h.Action == habit.Action {
			return nil, repository.ErrDuplicate
		}
	}
	habit.ID = primitive.NewObjectID()
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = habit.CreatedAt
	s.habits[habit.ID] = *habit
	return habit, nil
}

func (s *HabitStore) GetHabitByID(_ context.Context, id primitive.ObjectID) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	h, ok := s.habits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (s *HabitStore) GetHabitByAction(_ context.Context, action string) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, h := range s.habits {
		if h.Action == action {
			return &h, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *HabitStore) UpdateHabit(_ context.Context, habit *models.Habit) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.habits[habit.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	for id, h := range s.habits {
		if id != habit.ID && h.Action == habit.Action {
			return nil, repository.ErrDuplicate
		}
	}
	habit.UpdatedAt = time.Now()
	s.habits[habit.ID] = *habit
	return habit, nil
}

func (s *HabitStore) DeleteHabit(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.habits[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.habits, id)
	s.unlink(map[primitive.ObjectID]bool{id: true})
	return nil
}

func (s *HabitStore) DeleteHabitsByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	removed := map[primitive.ObjectID]bool{}
	for id, h := range s.habits {
		if h.UserID == userID {
			removed[id] = true
			delete(s.habits, id)
		}
	}
	s.unlink(removed)
	return int64(len(removed)), nil
}

func (s *HabitStore) unlink(ids map[primitive.ObjectID]bool) {
	for id, h := range s.habits {
		if h.RelatedHabitID != nil && ids[*h.RelatedHabitID] {
			h.RelatedHabitID = nil
			s.habits[id] = h
		}
	}
}

func (s *HabitStore) GetDependentHabits(_ context.Context, id primitive.ObjectID) ([]models.Habit, error) {
	return s.filter(func(h models.Habit) bool {
		return h.RelatedHabitID != nil && *h.RelatedHabitID == id
	})
}

func (s *HabitStore) ListHabitsByUser(_ context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Habit, int64, error) {
	all, err := s.filter(func(h models.Habit) bool { return h.UserID == userID })
	if err != nil {
		return nil, 0, err
	}
	return paginate(all, skip, limit), int64(len(all)), nil
}

func (s *HabitStore) ListPublicHabits(_ context.Context, skip, limit int64) ([]models.Habit, int64, error) {
	all, err := s.filter(func(h models.Habit) bool { return h.IsPublic })
	if err != nil {
		return nil, 0, err
	}
	return paginate(all, skip, limit), int64(len(all)), nil
}

func (s *HabitStore) GetHabitsByUser(_ context.Context, userID primitive.ObjectID, publicOnly bool) ([]models.Habit, error) {
	return s.filter(func(h models.Habit) bool {
		return h.UserID == userID && (!publicOnly || h.IsPublic)
	})
}

func (s *HabitStore) GetDueCandidates(_ context.Context, userID primitive.ObjectID, today time.Time, at models.TimeOfDay) ([]models.Habit, error) {
	return s.filter(func(h models.Habit) bool {
		return h.UserID == userID && !h.StartFrom.After(today) && h.Time == at && h.Frequency > 0
	})
}

func (s *HabitStore) filter(keep func(models.Habit) bool) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Habit, 0)
	for _, h := range s.habits {
		if keep(h) {
			out = append(out, h)
		}
	}
	// ObjectIDs grow with creation time, like the _id sort of the repository.
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func paginate(all []models.Habit, skip, limit int64) []models.Habit {
	if skip >= int64(len(all)) {
		return []models.Habit{}
	}
	end := int64(len(all))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end]
}

// UserStore keeps users in memory and enforces the unique email index.
type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
	order []primitive.ObjectID
	Err   error
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[primitive.ObjectID]models.User{}}
}

// Put stores u as-is, assigning an id when it has none.
func (s *UserStore) Put(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, ok := s.users[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.users[u.ID] = u
	return u
}

func (s *UserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	s.order = append(s.order, user.ID)
	return user, nil
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) UpdateUser(_ context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range update {
		str, _ := v.(string)
		switch k {
		case "email":
			u.Email = str
		case "hashed_password":
			u.HashedPassword = str
		case "username":
			u.Username = str
		case "country":
			u.Country = str
		case "telegram":
			u.Telegram = str
		}
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return &u, nil
}

func (s *UserStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *UserStore) GetAllUsers(_ context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]*models.User, 0, len(s.order))
	for _, id := range s.order {
		u := s.users[id]
		out = append(out, &u)
	}
	return out, nil
}

// NotificationStore keeps notifications in memory.
type NotificationStore struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// All returns a copy of every stored notification in insertion order.
func (s *NotificationStore) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.notifications...)
}

func (s *NotificationStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notif.ID = primitive.NewObjectID()
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}
	if notif.ExpiresAt.IsZero() {
		notif.ExpiresAt = notif.CreatedAt.Add(repository.ReminderTTL)
	}
	s.notifications = append(s.notifications, *notif)
	return nil
}

func (s *NotificationStore) GetNotificationByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *NotificationStore) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	out := make([]models.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID == userID && n.ExpiresAt.After(now) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *NotificationStore) GetHabitReminders(_ context.Context, userID, habitID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	out := make([]models.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != userID || n.TargetID == nil || *n.TargetID != habitID || !n.ExpiresAt.After(now) {
			continue
		}
		if n.Type != models.NotificationHabitReminder && n.Type != models.NotificationHabitReminderFailed {
			continue
		}
		out = append(out, n)
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (s *NotificationStore) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *NotificationStore) DeleteNotification(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *NotificationStore) DeleteExpiredNotifications(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	kept := s.notifications[:0]
	var removed int64
	for _, n := range s.notifications {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		} else {
			removed++
		}
	}
	s.notifications = kept
	return removed, nil
}

// ActivityStore keeps activities in memory.
type ActivityStore struct {
	mu         sync.Mutex
	activities []models.Activity
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

func (s *ActivityStore) CreateActivity(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity.ID = primitive.NewObjectID()
	s.activities = append(s.activities, *activity)
	return nil
}

func (s *ActivityStore) GetUserActivities(_ context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Activity, 0)
	for i := len(s.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if s.activities[i].UserID == userID {
			out = append(out, s.activities[i])
		}
	}
	return out, nil
}

func (s *ActivityStore) DeleteUserActivities(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.activities[:0]
	for _, a := range s.activities {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	s.activities = kept
	return nil
}
