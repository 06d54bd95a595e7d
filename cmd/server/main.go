package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Habit_Tracker/internal/config"
	"github.com/Dias221467/Habit_Tracker/internal/database"
	"github.com/Dias221467/Habit_Tracker/internal/handlers"
	"github.com/Dias221467/Habit_Tracker/internal/jobs"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/Dias221467/Habit_Tracker/internal/scheduler"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/pkg/email"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/Dias221467/Habit_Tracker/pkg/middleware"
	"github.com/Dias221467/Habit_Tracker/pkg/telegram"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration from .env file and the environment
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}
	defer func() {
		_ = db.Client().Disconnect(context.Background())
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		logger.Log.Fatalf("Index creation error: %v", err)
	}
	cancel()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// --- Services ---
	activityService := services.NewActivityService(activityRepo)
	habitService := services.NewHabitService(habitRepo, activityService, cfg.Location)
	userService := services.NewUserService(userRepo, habitRepo, activityService)
	notificationService := services.NewNotificationService(notificationRepo)

	// --- Reminders ---
	var tg, mail jobs.Sender
	if cfg.TelegramToken != "" {
		tg = telegram.NewClient(cfg.TelegramURL, cfg.TelegramToken)
	} else {
		logger.Log.Warn("TELEGRAM_API_TOKEN is not set, Telegram reminders are disabled")
	}
	if cfg.SMTPEnabled() {
		mail = email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPassword)
	}
	dispatcher := jobs.NewReminderDispatcher(userService, habitService, notificationService, tg, mail, cfg.ReminderWorkers, cfg.ReminderTimeout)

	cronJobs, err := scheduler.StartReminderCronJobs(cfg.ReminderSchedule, cfg.Location, dispatcher, notificationService)
	if err != nil {
		logger.Log.Fatalf("Scheduler error: %v", err)
	}

	// --- HTTP ---
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(10*time.Minute, stopCleanup)

	router := handlers.NewRouter(handlers.Handlers{
		Users:         handlers.NewUserHandler(userService, cfg),
		Habits:        handlers.NewHabitHandler(habitService, cfg.PageSize),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Activity:      handlers.NewActivityHandler(activityService),
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
	}, cfg.JWTSecret, limiter)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("HTTP server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Log.Info("Shutting down")

	shutdown(srv, cronJobs.Stop(), stopCleanup, db)
}

// shutdown drains HTTP requests and waits for a running reminder sweep.
func shutdown(srv *http.Server, cronDone context.Context, stopCleanup chan struct{}, db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(stopCleanup)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("HTTP server shutdown failed")
	}

	select {
	case <-cronDone.Done():
	case <-ctx.Done():
		logger.Log.Warn("Reminder sweep still running at shutdown")
	}
	logger.Log.WithField("db", db.Name()).Info("Server stopped")
}
