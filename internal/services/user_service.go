package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MsgInvalidEmail = "Enter a valid email address."
	MsgEmailTaken   = "User with this email already exists."
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo       UserStore
	habitRepo  HabitStore
	activities *ActivityService
}

// NewUserService creates a new instance of UserService. activities may be nil.
func NewUserService(repo UserStore, habitRepo HabitStore, activities *ActivityService) *UserService {
	return &UserService{
		repo:       repo,
		habitRepo:  habitRepo,
		activities: activities,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	logrus.Info("Registering new user")

	verr := NewValidationError()
	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		verr.Add("email", MsgFieldRequired)
	case !emailRegex.MatchString(email):
		verr.Add("email", MsgInvalidEmail)
	}
	if req.Password == "" {
		verr.Add("password", MsgFieldRequired)
	}
	if !verr.Empty() {
		logrus.Warn("Missing or invalid fields during registration")
		return nil, verr
	}

	// Check if the email is already registered
	if existing, _ := s.repo.GetUserByEmail(ctx, email); existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, emailTaken()
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          email,
		Username:       req.Username,
		Country:        req.Country,
		Telegram:       req.Telegram,
		HashedPassword: string(hashedPwd),
		Role:           "user",
	}
	if user.Username == "" {
		user.Username = models.DefaultUsername
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken()
		}
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   createdUser.Role,
	}).Info("User registered successfully")

	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logrus.WithField("email", email).Warn("User not found")
		return nil, ErrInvalidCredentials
	}

	// Compare the provided password with the hashed password.
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, ErrInvalidCredentials
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, ErrInvalidID
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to retrieve user")
		return nil, notFound(err)
	}
	return user, nil
}

// GetProfile returns the full profile with all habits when actorID owns the
// account, and the public view with public habits otherwise.
func (s *UserService) GetProfile(ctx context.Context, actorID primitive.ObjectID, id string) (interface{}, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	own := user.ID == actorID
	habits, err := s.habitRepo.GetHabitsByUser(ctx, user.ID, !own)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}

	if own {
		return &models.UserProfile{User: *user, Habits: habits}, nil
	}
	return publicUser(user, habits), nil
}

// ListUsers returns the public view of every user.
func (s *UserService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		habits, err := s.habitRepo.GetHabitsByUser(ctx, u.ID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch public habits: %w", err)
		}
		out = append(out, *publicUser(u, habits))
	}
	return out, nil
}

// GetAllUsers returns every stored user.
func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *UserService) emailInUse(ctx context.Context, email string, self primitive.ObjectID) bool {
	existing, _ := s.repo.GetUserByEmail(ctx, email)
	return existing != nil && existing.ID != self
}

// UpdateUser updates the account of actorID. A new password is re-hashed.
func (s *UserService) UpdateUser(ctx context.Context, actorID primitive.ObjectID, id string, patch models.UserPatch) (*models.User, error) {
	user, err := s.ownAccount(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	update := map[string]interface{}{}
	verr := NewValidationError()

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		switch {
		case email == user.Email:
		case !emailRegex.MatchString(email):
			verr.Add("email", MsgInvalidEmail)
		case s.emailInUse(ctx, email, user.ID):
			verr.Add("email", MsgEmailTaken)
		default:
			update["email"] = email
		}
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			verr.Add("password", MsgFieldRequired)
		} else {
			hashedPwd, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			update["hashed_password"] = string(hashedPwd)
		}
	}
	if patch.Username != nil {
		update["username"] = *patch.Username
	}
	if patch.Country != nil {
		update["country"] = *patch.Country
	}
	if patch.Telegram != nil {
		update["telegram"] = *patch.Telegram
	}

	if !verr.Empty() {
		return nil, verr
	}
	if len(update) == 0 {
		return user, nil
	}

	updated, err := s.repo.UpdateUser(ctx, user.ID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken()
		}
		logrus.WithError(err).Error("Failed to update user in service")
		return nil, fmt.Errorf("failed to update user: %w", notFound(err))
	}

	logrus.WithField("userID", updated.ID.Hex()).Info("User updated successfully in service")
	return updated, nil
}

// DeleteUser deletes the account of actorID together with its habits.
func (s *UserService) DeleteUser(ctx context.Context, actorID primitive.ObjectID, id string) error {
	user, err := s.ownAccount(ctx, actorID, id)
	if err != nil {
		return err
	}

	if _, err := s.habitRepo.DeleteHabitsByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete habits: %w", err)
	}
	if s.activities != nil {
		if err := s.activities.ClearActivities(ctx, user.ID); err != nil {
			logrus.WithError(err).Warn("Failed to clear activities of deleted user")
		}
	}
	if err := s.repo.DeleteUser(ctx, user.ID); err != nil {
		logrus.WithError(err).Error("Failed to delete user")
		return notFound(err)
	}

	logrus.WithField("userID", id).Info("User deleted successfully")
	return nil
}

func (s *UserService) ownAccount(ctx context.Context, actorID primitive.ObjectID, id string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID != actorID {
		logrus.WithFields(logrus.Fields{
			"requestedUserID": id,
			"loggedInUserID":  actorID.Hex(),
		}).Warn("Forbidden account mutation attempt")
		return nil, ErrForbidden
	}
	return user, nil
}

func publicUser(u *models.User, habits []models.Habit) *models.PublicUser {
	return &models.PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Country:      u.Country,
		PublicHabits: habits,
	}
}

func emailTaken() error {
	verr := NewValidationError()
	verr.Add("email", MsgEmailTaken)
	return verr
}
