package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HabitRepository handles database operations related to habits
type HabitRepository struct {
	collection *mongo.Collection
}

// NewHabitRepository creates a new instance of HabitRepository
func NewHabitRepository(db *mongo.Database) *HabitRepository {
	return &HabitRepository{
		collection: db.Collection("habits"),
	}
}

// CreateHabit inserts a new habit. A clash on the unique action index
// yields ErrDuplicate.
func (r *HabitRepository) CreateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	now := time.Now()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, habit)
	if err != nil {
		logger.Log.WithError(err).WithField("action", habit.Action).Error("Failed to insert habit")
		return nil, translate(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted habit ID")
	}
	habit.ID = insertedID

	logger.Log.WithField("habit_id", habit.ID.Hex()).Info("Habit created successfully")
	return habit, nil
}

// GetHabitByID fetches a habit by its ID
func (r *HabitRepository) GetHabitByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error) {
	var habit models.Habit
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&habit); err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Debug("Failed to find habit by ID")
		return nil, translate(err)
	}
	return &habit, nil
}

// GetHabitByAction fetches the habit with the given action text.
func (r *HabitRepository) GetHabitByAction(ctx context.Context, action string) (*models.Habit, error) {
	var habit models.Habit
	if err := r.collection.FindOne(ctx, bson.M{"action": action}).Decode(&habit); err != nil {
		return nil, translate(err)
	}
	return &habit, nil
}

// UpdateHabit replaces the stored habit with the given state.
func (r *HabitRepository) UpdateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	habit.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": habit.ID}, habit)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", habit.ID.Hex()).Error("Failed to update habit")
		return nil, translate(err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	logger.Log.WithField("habit_id", habit.ID.Hex()).Info("Habit updated successfully")
	return habit, nil
}

// DeleteHabit deletes a habit and unlinks every habit that used it as
// related habit. Dependents are kept.
func (r *HabitRepository) DeleteHabit(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Error("Failed to delete habit")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	if _, err := r.unlink(ctx, bson.M{"related_habit_id": id}); err != nil {
		return err
	}

	logger.Log.WithField("habit_id", id.Hex()).Info("Habit deleted successfully")
	return nil
}

// GetDependentHabits returns the habits that use id as their related habit.
func (r *HabitRepository) GetDependentHabits(ctx context.Context, id primitive.ObjectID) ([]models.Habit, error) {
	return r.listHabits(ctx, bson.M{"related_habit_id": id}, 0, 0)
}

// DeleteHabitsByUser removes all habits owned by userID and unlinks habits
// of other users that referenced them.
func (r *HabitRepository) DeleteHabitsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	owned, err := r.listHabits(ctx, bson.M{"user_id": userID}, 0, 0)
	if err != nil {
		return 0, err
	}
	if len(owned) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(owned))
	for _, h := range owned {
		ids = append(ids, h.ID)
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to delete user habits")
		return 0, fmt.Errorf("failed to delete habits: %w", err)
	}

	if _, err := r.unlink(ctx, bson.M{"related_habit_id": bson.M{"$in": ids}}); err != nil {
		return result.DeletedCount, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID.Hex(),
		"count":   result.DeletedCount,
	}).Info("User habits deleted")
	return result.DeletedCount, nil
}

func (r *HabitRepository) unlink(ctx context.Context, filter bson.M) (int64, error) {
	result, err := r.collection.UpdateMany(ctx, filter, bson.M{
		"$unset": bson.M{"related_habit_id": ""},
		"$set":   bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to unlink related habits")
		return 0, fmt.Errorf("failed to unlink related habits: %w", err)
	}
	return result.ModifiedCount, nil
}

// ListHabitsByUser returns one page of the user's habits in creation order
// together with the total number of habits the user owns.
func (r *HabitRepository) ListHabitsByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Habit, int64, error) {
	return r.page(ctx, bson.M{"user_id": userID}, skip, limit)
}

// ListPublicHabits returns one page of public habits of all users.
func (r *HabitRepository) ListPublicHabits(ctx context.Context, skip, limit int64) ([]models.Habit, int64, error) {
	return r.page(ctx, bson.M{"is_public": true}, skip, limit)
}

// GetHabitsByUser returns every habit of the user, optionally only public ones.
func (r *HabitRepository) GetHabitsByUser(ctx context.Context, userID primitive.ObjectID, publicOnly bool) ([]models.Habit, error) {
	filter := bson.M{"user_id": userID}
	if publicOnly {
		filter["is_public"] = true
	}
	return r.listHabits(ctx, filter, 0, 0)
}

// GetDueCandidates narrows the user's habits to those scheduled at the given
// minute whose tracking has started by today. The recurrence check itself
// is applied by the caller.
func (r *HabitRepository) GetDueCandidates(ctx context.Context, userID primitive.ObjectID, today time.Time, at models.TimeOfDay) ([]models.Habit, error) {
	filter := bson.M{
		"user_id":     userID,
		"start_from":  bson.M{"$lte": today},
		"time.hour":   at.Hour,
		"time.minute": at.Minute,
		"frequency":   bson.M{"$gt": 0},
	}
	return r.listHabits(ctx, filter, 0, 0)
}

func (r *HabitRepository) page(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Habit, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to count habits")
		return nil, 0, fmt.Errorf("failed to count habits: %w", err)
	}

	habits, err := r.listHabits(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return habits, total, nil
}

func (r *HabitRepository) listHabits(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Habit, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if skip > 0 {
		findOptions.SetSkip(skip)
	}
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch habits")
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	defer cursor.Close(ctx)

	habits := make([]models.Habit, 0)
	for cursor.Next(ctx) {
		var habit models.Habit
		if err := cursor.Decode(&habit); err != nil {
			logger.Log.WithError(err).Error("Failed to decode habit")
			return nil, fmt.Errorf("failed to decode habit: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}
