package handlers

import (
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// HabitHandler handles HTTP requests related to habits.
type HabitHandler struct {
	Service  *services.HabitService
	PageSize int
}

// NewHabitHandler creates a new instance of HabitHandler.
func NewHabitHandler(service *services.HabitService, pageSize int) *HabitHandler {
	return &HabitHandler{
		Service:  service,
		PageSize: pageSize,
	}
}

// ListHabitsHandler returns one page of the caller's habits.
func (h *HabitHandler) ListHabitsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := h.Service.ListUserHabits(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "page_size", h.PageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListPublicHabitsHandler returns one page of habits published by anyone.
func (h *HabitHandler) ListPublicHabitsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	page, err := h.Service.ListPublicHabits(r.Context(), queryInt(r, "page", 1), queryInt(r, "page_size", h.PageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CreateHabitHandler handles the creation of a new habit.
func (h *HabitHandler) CreateHabitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input models.HabitInput
	if !decodeJSON(w, r, &input) {
		return
	}

	habit, err := h.Service.CreateHabit(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  userID.Hex(),
		"habit_id": habit.ID.Hex(),
	}).Info("Habit successfully created")
	writeJSON(w, http.StatusCreated, habit)
}

// GetHabitHandler returns a habit owned by the caller or a public one.
func (h *HabitHandler) GetHabitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	habit, err := h.Service.GetHabit(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// UpdateHabitHandler serves PUT (full update) and PATCH (partial update).
func (h *HabitHandler) UpdateHabitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	habitID := mux.Vars(r)["id"]

	var (
		habit *models.Habit
		err   error
	)
	if r.Method == http.MethodPatch {
		var patch models.HabitPatch
		if !decodeJSON(w, r, &patch) {
			return
		}
		habit, err = h.Service.PatchHabit(r.Context(), userID, habitID, patch)
	} else {
		var input models.HabitInput
		if !decodeJSON(w, r, &input) {
			return
		}
		habit, err = h.Service.ReplaceHabit(r.Context(), userID, habitID, input)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  userID.Hex(),
		"habit_id": habitID,
	}).Info("Habit successfully updated")
	writeJSON(w, http.StatusOK, habit)
}

// DeleteHabitHandler deletes a habit owned by the caller.
func (h *HabitHandler) DeleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteHabit(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
