package repository

import (
	"context"
	"testing"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const usersNS = "habit_tracker.users"

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_1",
		}))

		_, err := repo.CreateUser(ctx, &models.User{Email: "user@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		stored := models.User{ID: primitive.NewObjectID(), Email: "user@example.com", Telegram: "12345"}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt.T, stored)}))

		updated, err := repo.UpdateUser(ctx, stored.ID, map[string]interface{}{"telegram": "12345"})
		require.NoError(mt, err)
		assert.Equal(mt, "12345", updated.Telegram)
	})

	mt.Run("get all users", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		a := models.User{ID: primitive.NewObjectID(), Email: "a@example.com"}
		b := models.User{ID: primitive.NewObjectID(), Email: "b@example.com"}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, toDoc(mt.T, a), toDoc(mt.T, b)))

		users, err := repo.GetAllUsers(ctx)
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "b@example.com", users[1].Email)
	})

	mt.Run("get by email missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
