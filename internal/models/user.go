package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultUsername = "ghost"

// User represents an account of the habit tracker. Email is the login name;
// Telegram holds the chat id reminders are delivered to.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	Username       string             `bson:"username" json:"username"`
	Country        string             `bson:"country,omitempty" json:"country,omitempty"`
	Telegram       string             `bson:"telegram,omitempty" json:"telegram,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Role           string             `bson:"role" json:"role"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicUser is what other users may see of an account.
type PublicUser struct {
	ID           primitive.ObjectID `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	Country      string             `json:"country,omitempty"`
	PublicHabits []Habit            `json:"public_habits"`
}

// UserProfile is the owner's view of their own account.
type UserProfile struct {
	User
	Habits []Habit `json:"habits"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Country  string `json:"country"`
	Telegram string `json:"telegram"`
}

// UserPatch is the profile update payload; empty fields are left unchanged.
type UserPatch struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Username *string `json:"username"`
	Country  *string `json:"country"`
	Telegram *string `json:"telegram"`
}
