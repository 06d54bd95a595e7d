package services

import (
	"context"
	"testing"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUserService() (*UserService, *testutil.UserStore, *testutil.HabitStore) {
	users := testutil.NewUserStore()
	habits := testutil.NewHabitStore()
	return NewUserService(users, habits, NewActivityService(testutil.NewActivityStore())), users, habits
}

func register(t *testing.T, svc *UserService, email string) *models.User {
	t.Helper()
	u, err := svc.RegisterUser(context.Background(), models.RegisterRequest{Email: email, Password: "s3cret"})
	require.NoError(t, err)
	return u
}

func TestRegisterUser(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	u := register(t, svc, "ann@example.com")
	assert.Equal(t, models.DefaultUsername, u.Username)
	assert.NotEqual(t, "s3cret", u.HashedPassword)
	assert.Equal(t, "user", u.Role)

	_, err := svc.RegisterUser(ctx, models.RegisterRequest{Email: "ann@example.com", Password: "x"})
	assert.Equal(t, []string{MsgEmailTaken}, messagesOf(t, err).Fields["email"])

	_, err = svc.RegisterUser(ctx, models.RegisterRequest{Email: "not-an-email"})
	verr := messagesOf(t, err)
	assert.Equal(t, []string{MsgInvalidEmail}, verr.Fields["email"])
	assert.Equal(t, []string{MsgFieldRequired}, verr.Fields["password"])
}

func TestAuthenticateUser(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()
	u := register(t, svc, "ann@example.com")

	got, err := svc.AuthenticateUser(ctx, "ann@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.AuthenticateUser(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.AuthenticateUser(ctx, "bob@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetProfileHidesPrivateHabits(t *testing.T) {
	svc, _, habits := newUserService()
	ctx := context.Background()
	ann := register(t, svc, "ann@example.com")
	bob := register(t, svc, "bob@example.com")

	habits.Put(models.Habit{UserID: ann.ID, Action: "run", IsPublic: true})
	habits.Put(models.Habit{UserID: ann.ID, Action: "read"})

	own, err := svc.GetProfile(ctx, ann.ID, ann.ID.Hex())
	require.NoError(t, err)
	require.IsType(t, &models.UserProfile{}, own)
	assert.Len(t, own.(*models.UserProfile).Habits, 2)

	other, err := svc.GetProfile(ctx, bob.ID, ann.ID.Hex())
	require.NoError(t, err)
	require.IsType(t, &models.PublicUser{}, other)
	public := other.(*models.PublicUser)
	require.Len(t, public.PublicHabits, 1)
	assert.Equal(t, "run", public.PublicHabits[0].Action)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.GetProfile(ctx, ann.ID, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()
	ann := register(t, svc, "ann@example.com")
	bob := register(t, svc, "bob@example.com")

	chat := "123456"
	name := "ann"
	updated, err := svc.UpdateUser(ctx, ann.ID, ann.ID.Hex(), models.UserPatch{Telegram: &chat, Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "123456", updated.Telegram)
	assert.Equal(t, "ann", updated.Username)

	taken := "bob@example.com"
	_, err = svc.UpdateUser(ctx, ann.ID, ann.ID.Hex(), models.UserPatch{Email: &taken})
	assert.True(t, messagesOf(t, err).Has(MsgEmailTaken))

	own := "  ann@example.com "
	updated, err = svc.UpdateUser(ctx, ann.ID, ann.ID.Hex(), models.UserPatch{Email: &own})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", updated.Email)

	_, err = svc.UpdateUser(ctx, bob.ID, ann.ID.Hex(), models.UserPatch{Username: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	password := "n3w"
	_, err = svc.UpdateUser(ctx, ann.ID, ann.ID.Hex(), models.UserPatch{Password: &password})
	require.NoError(t, err)
	_, err = svc.AuthenticateUser(ctx, "ann@example.com", "n3w")
	assert.NoError(t, err)
}

func TestDeleteUserRemovesHabits(t *testing.T) {
	svc, users, habits := newUserService()
	ctx := context.Background()
	ann := register(t, svc, "ann@example.com")
	bob := register(t, svc, "bob@example.com")
	habits.Put(models.Habit{UserID: ann.ID, Action: "run"})
	habits.Put(models.Habit{UserID: bob.ID, Action: "read"})

	assert.ErrorIs(t, svc.DeleteUser(ctx, bob.ID, ann.ID.Hex()), ErrForbidden)
	require.NoError(t, svc.DeleteUser(ctx, ann.ID, ann.ID.Hex()))

	_, err := users.GetUserByID(ctx, ann.ID)
	assert.Error(t, err)
	assert.Equal(t, 1, habits.Len())
}
