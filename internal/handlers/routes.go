package handlers

import (
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/metrics"
	"github.com/Dias221467/Habit_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Users         *UserHandler
	Habits        *HabitHandler
	Notifications *NotificationHandler
	Activity      *ActivityHandler
	Health        *HealthHandler
}

// NewRouter registers all routes. Anonymous routes are rate limited per IP,
// authenticated ones per user. limiter may be nil.
func NewRouter(h Handlers, jwtSecret string, limiter *middleware.RateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(metrics.InstrumentHandler)

	limit := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		limit = limiter.Handler
	}

	// Operations
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	if h.Health != nil {
		router.HandleFunc("/healthz", h.Health.HealthzHandler).Methods(http.MethodGet)
	}

	// Public user routes
	public := router.NewRoute().Subrouter()
	public.Use(limit)
	public.HandleFunc("/register", h.Users.RegisterUserHandler).Methods(http.MethodPost)
	public.HandleFunc("/token", h.Users.TokenHandler).Methods(http.MethodPost)
	public.HandleFunc("/token/refresh", h.Users.RefreshTokenHandler).Methods(http.MethodPost)

	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	protected.Use(limit)

	// Habits
	protected.HandleFunc("/habits", h.Habits.ListHabitsHandler).Methods(http.MethodGet)
	protected.HandleFunc("/habits", h.Habits.CreateHabitHandler).Methods(http.MethodPost)
	protected.HandleFunc("/habits/public", h.Habits.ListPublicHabitsHandler).Methods(http.MethodGet)
	protected.HandleFunc("/habits/{id}", h.Habits.GetHabitHandler).Methods(http.MethodGet)
	protected.HandleFunc("/habits/{id}/edit", h.Habits.UpdateHabitHandler).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/habits/{id}/delete", h.Habits.DeleteHabitHandler).Methods(http.MethodDelete)

	// Users
	protected.HandleFunc("/users", h.Users.ListUsersHandler).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.Users.GetUserHandler).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}/edit", h.Users.UpdateUserHandler).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/users/{id}/delete", h.Users.DeleteUserHandler).Methods(http.MethodDelete)

	// Notifications
	protected.HandleFunc("/notifications", h.Notifications.GetUserNotificationsHandler).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", h.Notifications.MarkAsReadHandler).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}", h.Notifications.DeleteNotificationHandler).Methods(http.MethodDelete)
	protected.HandleFunc("/habits/{id}/reminders", h.Notifications.GetHabitRemindersHandler).Methods(http.MethodGet)

	// Activity
	protected.HandleFunc("/activity", h.Activity.GetActivityHandler).Methods(http.MethodGet)

	return router
}
