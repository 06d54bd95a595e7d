package services

import (
	"context"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

type ActivityService struct {
	repo ActivityStore
}

func NewActivityService(repo ActivityStore) *ActivityService {
	return &ActivityService{repo: repo}
}

// LogActivity logs a user activity
func (s *ActivityService) LogActivity(
	ctx context.Context,
	userID primitive.ObjectID,
	actionType string,
	targetID primitive.ObjectID,
	message string,
) error {
	activity := &models.Activity{
		UserID:    userID,
		Type:      actionType,
		TargetID:  targetID,
		Message:   message,
		Timestamp: time.Now(),
	}

	err := s.repo.CreateActivity(ctx, activity)
	if err != nil {
		logrus.WithError(err).Error("Failed to log activity in service")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID.Hex(),
		"action_type": actionType,
	}).Debug("Activity logged successfully")

	return nil
}

// GetRecentActivities returns recent actions performed by a user
func (s *ActivityService) GetRecentActivities(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	return s.repo.GetUserActivities(ctx, userID, limit)
}

// ClearActivities drops the activity log of a user.
func (s *ActivityService) ClearActivities(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.DeleteUserActivities(ctx, userID)
}
