package routes

import (
	"github.com/arnold/goalsetter/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Setup(app *fiber.App, h *handlers.Handler) {
	app.Get("/", handlers.Health)

	api := app.Group("/api")

	goals := api.Group("/goals")
	goals.Get("/", h.GetGoals)
	goals.Post("/", h.CreateGoal)
	goals.Delete("/", h.ClearGoals)
	goals.Get("/:id", h.GetGoal)
	goals.Put("/:id", h.UpdateGoal)
	goals.Delete("/:id", h.DeleteGoal)

	goals.Post("/:id/subtasks", h.CreateSubTask)
	goals.Post("/:id/subtasks/:subTaskId/toggle", h.ToggleSubTask)
	goals.Delete("/:id/subtasks/:subTaskId", h.DeleteSubTask)

	goals.Post("/:id/reminders", h.CreateReminder)
	goals.Delete("/:id/reminders/:reminderId", h.DeleteReminder)
	goals.Post("/:id/reminders/:reminderId/notified", h.MarkReminderNotified)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.Get("/", h.GetNotifications)
	notifications.Delete("/:id", h.DismissNotification)

	// Device token for push notifications
	api.Post("/device-token", h.RegisterDeviceToken)

	// WebSocket for live goal updates
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/goals", websocket.New(h.HandleWebSocket))
}
