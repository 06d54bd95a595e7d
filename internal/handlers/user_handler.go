package handlers

import (
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/config"
	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	jwtutil "github.com/Dias221467/Habit_Tracker/pkg/jwt"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	createdUser, err := h.Service.RegisterUser(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	log.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	writeJSON(w, http.StatusCreated, createdUser)
}

// TokenHandler exchanges credentials for an access and a refresh token.
func (h *UserHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &credentials) {
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).Warn("Authentication failed")
		writeError(w, err)
		return
	}

	access, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		writeError(w, err)
		return
	}
	refresh, err := jwtutil.GenerateRefreshToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.RefreshTokenExpiry)
	if err != nil {
		writeError(w, err)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	writeJSON(w, http.StatusOK, tokenPair{Access: access, Refresh: refresh})
}

// RefreshTokenHandler issues a new access token for a valid refresh token.
func (h *UserHandler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	claims, err := jwtutil.ParseToken(body.Refresh, h.Config.JWTSecret, jwtutil.RefreshToken)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	access, err := jwtutil.GenerateToken(claims.UserID, claims.Email, claims.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPair{Access: access})
}

// ListUsersHandler returns the public view of every user.
func (h *UserHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUserHandler returns the caller's full profile, or another user's
// public profile.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), actorID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateUserHandler handles updating the caller's own profile.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var patch models.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.Service.UpdateUser(r.Context(), actorID, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}

	log.WithField("userID", updated.ID.Hex()).Info("User updated successfully")
	writeJSON(w, http.StatusOK, updated)
}

// DeleteUserHandler deletes the caller's own account.
func (h *UserHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteUser(r.Context(), actorID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
