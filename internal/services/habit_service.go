package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// HabitService encapsulates the business logic for habits.
type HabitService struct {
	repo     HabitStore
	activity *ActivityService
	location *time.Location
	clock    func() time.Time
}

// NewHabitService creates a new instance of HabitService. Habit times and
// start dates are interpreted in loc. activity may be nil.
func NewHabitService(repo HabitStore, activity *ActivityService, loc *time.Location) *HabitService {
	if loc == nil {
		loc = time.UTC
	}
	return &HabitService{
		repo:     repo,
		activity: activity,
		location: loc,
		clock:    time.Now,
	}
}

// SetClock replaces the time source used to stamp start dates.
func (s *HabitService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Location returns the time zone habit times are interpreted in.
func (s *HabitService) Location() *time.Location {
	return s.location
}

func (s *HabitService) now() time.Time {
	return s.clock().In(s.location)
}

// CreateHabit validates the input and stores a new habit owned by ownerID.
// start_from is stamped with today's date.
func (s *HabitService) CreateHabit(ctx context.Context, ownerID primitive.ObjectID, input models.HabitInput) (*models.Habit, error) {
	verr := NewValidationError()
	habit := habitFromInput(input, verr)
	habit.UserID = ownerID
	habit.StartFrom = models.Date(s.now())

	if err := s.validate(ctx, habit, nil, verr); err != nil {
		logger.Log.WithError(err).WithField("user_id", ownerID.Hex()).Warn("Habit rejected during creation")
		return nil, err
	}

	created, err := s.repo.CreateHabit(ctx, habit)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateAction()
		}
		logger.Log.WithError(err).Error("Service failed to create habit")
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	s.logActivity(ctx, created, models.ActivityHabitCreated, "Created habit: %s")
	logger.Log.WithField("habit_id", created.ID.Hex()).Info("Habit created in service layer")
	return created, nil
}

// GetHabit returns a habit visible to actorID: their own, or any public one.
func (s *HabitService) GetHabit(ctx context.Context, actorID primitive.ObjectID, id string) (*models.Habit, error) {
	habit, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if habit.UserID != actorID && !habit.IsPublic {
		logger.Log.WithFields(logrus.Fields{
			"user_id":  actorID.Hex(),
			"habit_id": id,
		}).Warn("Forbidden: user tried to read a private habit")
		return nil, ErrForbidden
	}
	return habit, nil
}

// ReplaceHabit performs a full update: every editable field is taken from
// input, absent optional fields fall back to their defaults.
func (s *HabitService) ReplaceHabit(ctx context.Context, actorID primitive.ObjectID, id string, input models.HabitInput) (*models.Habit, error) {
	existing, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	verr := NewValidationError()
	candidate := habitFromInput(input, verr)
	candidate.ID = existing.ID
	candidate.UserID = existing.UserID
	candidate.StartFrom = existing.StartFrom
	candidate.CreatedAt = existing.CreatedAt

	return s.save(ctx, existing, candidate, verr)
}

// PatchHabit performs a partial update. The merge of the stored habit and
// the patch is re-validated as a whole.
func (s *HabitService) PatchHabit(ctx context.Context, actorID primitive.ObjectID, id string, patch models.HabitPatch) (*models.Habit, error) {
	existing, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	verr := NewValidationError()
	candidate := *existing
	applyPatch(&candidate, patch, verr)

	return s.save(ctx, existing, &candidate, verr)
}

// DeleteHabit removes a habit owned by actorID. Habits linked to it lose
// their related habit.
func (s *HabitService) DeleteHabit(ctx context.Context, actorID primitive.ObjectID, id string) error {
	habit, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteHabit(ctx, habit.ID); err != nil {
		logger.Log.WithField("habit_id", id).WithError(err).Error("Failed to delete habit")
		return fmt.Errorf("failed to delete habit: %w", notFound(err))
	}

	s.logActivity(ctx, habit, models.ActivityHabitDeleted, "Deleted habit: %s")
	logger.Log.WithField("habit_id", id).Info("Habit deleted successfully in service layer")
	return nil
}

// ListUserHabits returns one page of the user's own habits.
func (s *HabitService) ListUserHabits(ctx context.Context, userID primitive.ObjectID, page, pageSize int) (*models.HabitPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	habits, total, err := s.repo.ListHabitsByUser(ctx, userID, int64((page-1)*pageSize), int64(pageSize))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to list habits")
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return &models.HabitPage{Count: total, Page: page, Results: habits}, nil
}

// ListPublicHabits returns one page of habits published by any user.
func (s *HabitService) ListPublicHabits(ctx context.Context, page, pageSize int) (*models.HabitPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	habits, total, err := s.repo.ListPublicHabits(ctx, int64((page-1)*pageSize), int64(pageSize))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list public habits")
		return nil, fmt.Errorf("failed to list public habits: %w", err)
	}
	return &models.HabitPage{Count: total, Page: page, Results: habits}, nil
}

// DueHabits returns the habits of userID that should fire a reminder at the
// minute of now.
func (s *HabitService) DueHabits(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.Habit, error) {
	now = now.In(s.location)
	candidates, err := s.repo.GetDueCandidates(ctx, userID, models.Date(now), models.TimeOfDayOf(now))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due habits: %w", err)
	}
	return SelectDue(candidates, now), nil
}

func (s *HabitService) save(ctx context.Context, existing, candidate *models.Habit, verr *ValidationError) (*models.Habit, error) {
	if err := s.validate(ctx, candidate, existing, verr); err != nil {
		logger.Log.WithError(err).WithField("habit_id", existing.ID.Hex()).Warn("Habit update rejected")
		return nil, err
	}

	if candidate.SameState(existing) {
		logger.Log.WithField("habit_id", existing.ID.Hex()).Debug("Habit update is a no-op")
		return existing, nil
	}

	updated, err := s.repo.UpdateHabit(ctx, candidate)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateAction()
		}
		logger.Log.WithField("habit_id", existing.ID.Hex()).WithError(err).Error("Failed to update habit")
		return nil, fmt.Errorf("failed to update habit: %w", notFound(err))
	}

	s.logActivity(ctx, updated, models.ActivityHabitUpdated, "Updated habit: %s")
	logger.Log.WithField("habit_id", updated.ID.Hex()).Info("Habit updated successfully in service layer")
	return updated, nil
}

// validate resolves the related habit and runs every rule against the
// candidate. existing is nil on create.
func (s *HabitService) validate(ctx context.Context, candidate, existing *models.Habit, verr *ValidationError) error {
	c, err := s.resolve(ctx, candidate, existing)
	if err != nil {
		return err
	}

	if ruleErr := ValidateHabit(c); ruleErr != nil {
		var rv *ValidationError
		if errors.As(ruleErr, &rv) {
			for field, msgs := range rv.Fields {
				for _, msg := range msgs {
					verr.Add(field, msg)
				}
			}
		}
	}

	if candidate.Action != "" && (existing == nil || existing.Action != candidate.Action) {
		other, err := s.repo.GetHabitByAction(ctx, candidate.Action)
		switch {
		case err == nil && other.ID != candidate.ID:
			verr.Add("action", MsgDuplicateAction)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("failed to check action uniqueness: %w", err)
		}
	}

	if existing != nil {
		if err := s.checkDependents(ctx, candidate, existing, verr); err != nil {
			return err
		}
	}

	return verr.errOrNil()
}

// resolve fetches the related habit of candidate. A habit linking to
// itself is resolved against its own candidate state. Visibility is only
// checked when the link is new or changed.
func (s *HabitService) resolve(ctx context.Context, candidate, existing *models.Habit) (HabitCandidate, error) {
	c := HabitCandidate{Habit: candidate}
	if !candidate.HasRelatedHabit() {
		return c, nil
	}

	relatedID := *candidate.RelatedHabitID
	if !candidate.ID.IsZero() && relatedID == candidate.ID {
		c.Related = candidate
		return c, nil
	}

	related, err := s.repo.GetHabitByID(ctx, relatedID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.RelatedMissing = true
	case err != nil:
		return c, fmt.Errorf("failed to resolve related habit: %w", err)
	case related.UserID != candidate.UserID && !related.IsPublic && linkChanged(candidate, existing):
		c.RelatedMissing = true
	default:
		c.Related = related
	}
	return c, nil
}

func linkChanged(candidate, existing *models.Habit) bool {
	if existing == nil || !existing.HasRelatedHabit() {
		return true
	}
	return *existing.RelatedHabitID != *candidate.RelatedHabitID
}

// checkDependents keeps habits that link to candidate valid: a linked habit
// must stay pleasant and must not move later than its dependents.
func (s *HabitService) checkDependents(ctx context.Context, candidate, existing *models.Habit, verr *ValidationError) error {
	losesPleasant := existing.IsPleasant && !candidate.IsPleasant
	movesLater := candidate.Time.After(existing.Time)
	if !losesPleasant && !movesLater {
		return nil
	}

	dependents, err := s.repo.GetDependentHabits(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch dependent habits: %w", err)
	}
	if len(dependents) == 0 {
		return nil
	}

	if losesPleasant {
		verr.Add("is_pleasant", MsgDependentsNeedLearned)
	}
	for _, d := range dependents {
		if candidate.Time.After(d.Time) {
			verr.Add("time", MsgDependentsNeedEarlier)
			break
		}
	}
	return nil
}

func (s *HabitService) load(ctx context.Context, id string) (*models.Habit, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("habit_id", id).WithError(err).Warn("Invalid habit ID")
		return nil, ErrInvalidID
	}

	habit, err := s.repo.GetHabitByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		logger.Log.WithField("habit_id", id).WithError(err).Error("Failed to get habit from repository")
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return habit, nil
}

func (s *HabitService) loadOwned(ctx context.Context, actorID primitive.ObjectID, id string) (*models.Habit, error) {
	habit, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != actorID {
		logger.Log.WithFields(logrus.Fields{
			"user_id":  actorID.Hex(),
			"habit_id": id,
		}).Warn("Forbidden: mutation attempt by non-owner")
		return nil, ErrForbidden
	}
	return habit, nil
}

func (s *HabitService) logActivity(ctx context.Context, habit *models.Habit, kind, format string) {
	if s.activity == nil {
		return
	}
	_ = s.activity.LogActivity(ctx, habit.UserID, kind, habit.ID, fmt.Sprintf(format, habit.Action))
}

func habitFromInput(input models.HabitInput, verr *ValidationError) *models.Habit {
	h := &models.Habit{
		Action:        input.Action,
		Place:         input.Place,
		Frequency:     models.DefaultFrequency,
		EstimatedTime: models.DefaultEstimatedTime,
		Description:   input.Description,
		IsPleasant:    input.IsPleasant,
		Reward:        input.Reward,
		IsPublic:      input.IsPublic,
	}
	if input.Time == nil {
		verr.Add("time", MsgFieldRequired)
	} else {
		h.Time = *input.Time
	}
	if input.Frequency != nil {
		h.Frequency = *input.Frequency
	}
	if input.EstimatedTime != nil {
		h.EstimatedTime = *input.EstimatedTime
	}
	if input.RelatedHabitID != nil && !input.RelatedHabitID.IsZero() {
		id := *input.RelatedHabitID
		h.RelatedHabitID = &id
	}
	return h
}

func applyPatch(h *models.Habit, p models.HabitPatch, verr *ValidationError) {
	setRequired(&h.Action, p.Action, "action", verr)
	setRequired(&h.Time, p.Time, "time", verr)
	setRequired(&h.Place, p.Place, "place", verr)
	setRequired(&h.Frequency, p.Frequency, "frequency", verr)
	setRequired(&h.EstimatedTime, p.EstimatedTime, "estimated_time", verr)
	setRequired(&h.IsPleasant, p.IsPleasant, "is_pleasant", verr)
	setRequired(&h.IsPublic, p.IsPublic, "is_public", verr)

	if p.Description.Set {
		h.Description = p.Description.Value
	}
	if p.Reward.Set {
		h.Reward = p.Reward.Value
	}
	if p.RelatedHabitID.Set {
		if p.RelatedHabitID.Null || p.RelatedHabitID.Value.IsZero() {
			h.RelatedHabitID = nil
		} else {
			id := p.RelatedHabitID.Value
			h.RelatedHabitID = &id
		}
	}
}

func setRequired[T any](dst *T, v models.Optional[T], field string, verr *ValidationError) {
	if !v.Set {
		return
	}
	if v.Null {
		verr.Add(field, MsgFieldNotNull)
		return
	}
	*dst = v.Value
}

func duplicateAction() error {
	verr := NewValidationError()
	verr.Add("action", MsgDuplicateAction)
	return verr
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
