package app

import (
	"context"
	"fmt"

	"github.com/arnold/goalsetter/internal/config"
	"github.com/arnold/goalsetter/internal/database"
	"github.com/arnold/goalsetter/internal/handlers"
	"github.com/arnold/goalsetter/internal/middleware"
	"github.com/arnold/goalsetter/internal/routes"
	"github.com/arnold/goalsetter/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App owns one goal store, its scheduler and the HTTP surface over them.
// Build it once with New and release it with Close.
type App struct {
	Config    *config.Config
	Log       *zap.SugaredLogger
	DB        *gorm.DB
	KV        *database.KVStore
	Goals     *services.GoalStore
	Toasts    *services.ToastService
	Push      *services.PushService
	Scheduler *services.ReminderScheduler
	Hub       *handlers.Hub
}

func New(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	kv := database.NewKVStore(db)
	goals := services.NewGoalStore(database.NewGoalRepository(kv, log), log)
	toasts := services.NewToastService()

	push := services.NewPushService(ctx, cfg.FCMServiceAccount, kv, log)
	if cfg.FCMDeviceToken != "" {
		if err := push.SeedDeviceToken(cfg.FCMDeviceToken); err != nil {
			log.Warnw("failed to seed device token", "error", err)
		}
	}

	hub := handlers.NewHub(log)
	goals.Subscribe(hub.GoalsChanged)
	toasts.Subscribe(hub.ToastsChanged)

	scheduler := services.NewReminderScheduler(goals, push, toasts, log,
		services.WithInterval(cfg.ReminderInterval),
	)

	return &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		KV:        kv,
		Goals:     goals,
		Toasts:    toasts,
		Push:      push,
		Scheduler: scheduler,
		Hub:       hub,
	}, nil
}

// Server builds the fiber app with every route mounted.
func (a *App) Server() *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "goalsetter",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     a.Config.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Request-ID",
		AllowCredentials: a.Config.CORSOrigins != "*",
	}))
	server.Use(middleware.RequestLogger(a.Log))

	routes.Setup(server, handlers.New(a.Goals, a.Toasts, a.Push, a.Hub, a.Log))
	return server
}

// Close stops the scheduler and releases the database.
func (a *App) Close() error {
	a.Scheduler.Stop()
	return database.Close(a.DB)
}
