package handlers

import (
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/services"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GET /activity?limit=N
func (h *ActivityHandler) GetActivityHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	activities, err := h.Service.GetRecentActivities(r.Context(), userID, queryInt(r, "limit", services.DefaultActivityLimit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
