package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/Dias221467/Habit_Tracker/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps service errors onto HTTP responses. Validation errors
// carry their messages, every other class gets a generic detail.
func writeError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, services.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, services.ErrInvalidID):
		writeDetail(w, http.StatusBadRequest, "Invalid id.")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
	default:
		logger.Log.WithError(err).Error("Unhandled service error")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// currentUser returns the id of the authenticated user. It writes a 401
// and returns false when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logger.Log.WithField("user_id", claims.UserID).Warn("Token carries a malformed user id")
		writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Log.WithError(err).WithField("path", r.URL.Path).Warn("Invalid request payload")
		writeDetail(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
